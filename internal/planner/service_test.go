package planner

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/studyplan/internal/adaptive"
	"github.com/abhisek/studyplan/internal/backlog"
	"github.com/abhisek/studyplan/internal/store"
	"github.com/abhisek/studyplan/internal/weekplan"
)

var testToday = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testToday }

func dateIn(days int) *time.Time {
	d := testToday.AddDate(0, 0, days)
	return &d
}

func newService(t *testing.T, repo store.SessionRepo, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	svc, err := New(context.Background(), repo, "test", opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return svc
}

func seed(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()
	for _, s := range []backlog.Subject{
		{Name: "Physics", BacklogChapters: 10, Difficulty: backlog.DifficultyHigh, Deadline: dateIn(14)},
		{Name: "History", BacklogChapters: 4, Difficulty: backlog.DifficultyLow, Deadline: dateIn(30)},
	} {
		if _, err := svc.AddSubject(ctx, s); err != nil {
			t.Fatalf("AddSubject(%s) error = %v", s.Name, err)
		}
	}
}

// firstStudyTask returns the first non-buffer task of the first day.
func firstStudyTask(t *testing.T, plan weekplan.Plan) (string, string) {
	t.Helper()
	for _, d := range plan.Days {
		for _, task := range d.Tasks {
			if !task.IsBuffer() {
				return d.ID, task.ID
			}
		}
	}
	t.Fatal("plan has no study tasks")
	return "", ""
}

type failingRepo struct {
	store.SessionRepo
}

func (failingRepo) Save(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestNew_EmptySession(t *testing.T) {
	svc := newService(t, store.NewMemorySessionRepo())
	sess := svc.Session()
	if len(sess.Subjects) != 0 || sess.Results != nil {
		t.Errorf("new session = %+v, want empty", sess)
	}
	if sess.Profile != backlog.DefaultProfile() {
		t.Errorf("Profile = %+v, want default", sess.Profile)
	}
	if sess.LoadFactor != 1.0 {
		t.Errorf("LoadFactor = %v, want 1.0", sess.LoadFactor)
	}
}

func TestNew_CorruptSessionIsDiscarded(t *testing.T) {
	repo := store.NewMemorySessionRepo()
	if err := repo.Save(context.Background(), "test", []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	svc := newService(t, repo)
	if got := len(svc.Session().Subjects); got != 0 {
		t.Errorf("subjects = %d, want 0", got)
	}
}

func TestAddSubject(t *testing.T) {
	svc := newService(t, store.NewMemorySessionRepo())
	ctx := context.Background()

	deadline := time.Date(2026, 11, 2, 17, 45, 0, 0, time.UTC)
	sub, err := svc.AddSubject(ctx, backlog.Subject{
		Name:            "  Chemistry ",
		BacklogChapters: 3,
		Difficulty:      backlog.DifficultyModerate,
		Deadline:        &deadline,
		PriorityRank:    9,
	})
	if err != nil {
		t.Fatalf("AddSubject() error = %v", err)
	}
	if sub.ID == "" {
		t.Error("ID is empty")
	}
	if sub.Name != "Chemistry" {
		t.Errorf("Name = %q, want Chemistry", sub.Name)
	}
	if sub.PriorityRank != 0 {
		t.Errorf("PriorityRank = %d, want derived fields cleared", sub.PriorityRank)
	}
	if want := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC); !sub.Deadline.Equal(want) {
		t.Errorf("Deadline = %v, want %v", sub.Deadline, want)
	}

	_, err = svc.AddSubject(ctx, backlog.Subject{Name: "Empty", Difficulty: backlog.DifficultyLow, Deadline: &deadline})
	if !errors.Is(err, backlog.ErrInvalidBacklog) {
		t.Errorf("zero chapters error = %v, want ErrInvalidBacklog", err)
	}
	if got := len(svc.Session().Subjects); got != 1 {
		t.Errorf("subjects = %d, want 1", got)
	}
}

func TestUpdateAndRemoveSubject(t *testing.T) {
	svc := newService(t, store.NewMemorySessionRepo())
	seed(t, svc)
	ctx := context.Background()

	phys, err := svc.FindSubject("physics")
	if err != nil {
		t.Fatalf("FindSubject() error = %v", err)
	}
	phys.BacklogChapters = 12
	if _, err := svc.UpdateSubject(ctx, phys); err != nil {
		t.Fatalf("UpdateSubject() error = %v", err)
	}
	got, _ := svc.FindSubject(phys.ID)
	if got.BacklogChapters != 12 {
		t.Errorf("BacklogChapters = %d, want 12", got.BacklogChapters)
	}

	if err := svc.RemoveSubject(ctx, phys.ID); err != nil {
		t.Fatalf("RemoveSubject() error = %v", err)
	}
	if err := svc.RemoveSubject(ctx, phys.ID); !errors.Is(err, ErrSubjectNotFound) {
		t.Errorf("second RemoveSubject() error = %v, want ErrSubjectNotFound", err)
	}
	missing := phys
	if _, err := svc.UpdateSubject(ctx, missing); !errors.Is(err, ErrSubjectNotFound) {
		t.Errorf("UpdateSubject(removed) error = %v, want ErrSubjectNotFound", err)
	}
}

func TestSetProfile_Clamps(t *testing.T) {
	svc := newService(t, store.NewMemorySessionRepo())
	p, err := svc.SetProfile(context.Background(), backlog.Profile{DailyHours: 30, Pace: backlog.PaceFast})
	if err != nil {
		t.Fatalf("SetProfile() error = %v", err)
	}
	if p.DailyHours != 24 {
		t.Errorf("DailyHours = %v, want 24", p.DailyHours)
	}
	if p.Stress != backlog.StressModerate {
		t.Errorf("Stress = %q, want default Moderate", p.Stress)
	}
}

func TestGenerate(t *testing.T) {
	repo := store.NewMemorySessionRepo()
	svc := newService(t, repo)
	seed(t, svc)

	res, err := svc.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(res.Plan.Days) != weekplan.DaysPerPlan {
		t.Errorf("days = %d, want %d", len(res.Plan.Days), weekplan.DaysPerPlan)
	}
	if res.Subjects[0].PriorityRank == 0 {
		t.Error("subjects were not ranked")
	}
	if res.Stale {
		t.Error("fresh results marked stale")
	}
	if res.Adaptive.CompletionRate != 0 {
		t.Errorf("CompletionRate = %v, want 0", res.Adaptive.CompletionRate)
	}
	if svc.Session().LoadFactor != 1.0 {
		t.Errorf("LoadFactor = %v, want unchanged 1.0", svc.Session().LoadFactor)
	}

	// A second service over the same repo sees the persisted results.
	again := newService(t, repo)
	got := again.Session()
	if got.Results == nil {
		t.Fatal("results were not persisted")
	}
	if len(got.Results.Plan.Tasks()) != len(res.Plan.Tasks()) {
		t.Errorf("persisted tasks = %d, want %d", len(got.Results.Plan.Tasks()), len(res.Plan.Tasks()))
	}
}

func TestGenerate_InvalidInputKeepsResults(t *testing.T) {
	svc := newService(t, store.NewMemorySessionRepo())
	if _, err := svc.Generate(context.Background()); !errors.Is(err, backlog.ErrNoSubjects) {
		t.Errorf("Generate(empty) error = %v, want ErrNoSubjects", err)
	}
	if svc.Session().Results != nil {
		t.Error("failed generate produced results")
	}
}

func TestGenerate_SaveFailureKeepsState(t *testing.T) {
	mem := store.NewMemorySessionRepo()
	svc := newService(t, mem)
	seed(t, svc)

	svc.repo = failingRepo{SessionRepo: mem}
	if _, err := svc.Generate(context.Background()); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("Generate() error = %v, want save failure", err)
	}
	if svc.Session().Results != nil {
		t.Error("results swapped in despite failed save")
	}
}

func TestStaleResults(t *testing.T) {
	svc := newService(t, store.NewMemorySessionRepo())
	seed(t, svc)
	ctx := context.Background()

	if _, _, err := svc.ToggleTask(ctx, "d0", "x"); !errors.Is(err, ErrNoResults) {
		t.Errorf("ToggleTask before generate error = %v, want ErrNoResults", err)
	}
	res, err := svc.Generate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	dayID, taskID := firstStudyTask(t, res.Plan)

	if _, err := svc.SetProfile(ctx, backlog.Profile{DailyHours: 6}); err != nil {
		t.Fatal(err)
	}
	if !svc.Session().Results.Stale {
		t.Fatal("results not marked stale after profile change")
	}
	if _, _, err := svc.ToggleTask(ctx, dayID, taskID); !errors.Is(err, ErrStale) {
		t.Errorf("ToggleTask on stale plan error = %v, want ErrStale", err)
	}
	if _, _, err := svc.Rebalance(ctx); !errors.Is(err, ErrStale) {
		t.Errorf("Rebalance on stale plan error = %v, want ErrStale", err)
	}
}

func TestToggleRebalanceRegenerate(t *testing.T) {
	st, err := store.Open("file:planner_cycle?mode=memory&cache=shared")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	svc := newService(t, st.SessionRepo(), WithEvents(st.EventRepo()))
	seed(t, svc)
	ctx := context.Background()

	res, err := svc.Generate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	dayID, taskID := firstStudyTask(t, res.Plan)

	task, m, err := svc.ToggleTask(ctx, dayID, taskID)
	if err != nil {
		t.Fatalf("ToggleTask() error = %v", err)
	}
	if task.Status != weekplan.StatusCompleted {
		t.Errorf("Status = %v, want Completed", task.Status)
	}
	if m.CompletedTasks != 1 {
		t.Errorf("CompletedTasks = %d, want 1", m.CompletedTasks)
	}
	if got := svc.Session().LoadFactor; got != adaptive.FactorLowCompletion {
		t.Errorf("LoadFactor = %v, want %v", got, adaptive.FactorLowCompletion)
	}

	task, m, err = svc.ToggleTask(ctx, dayID, taskID)
	if err != nil {
		t.Fatal(err)
	}
	if task.Status != weekplan.StatusMissed || !m.RebalanceAvailable {
		t.Fatalf("after second toggle status = %v, rebalance available = %v", task.Status, m.RebalanceAvailable)
	}

	moved, m, err := svc.Rebalance(ctx)
	if err != nil {
		t.Fatalf("Rebalance() error = %v", err)
	}
	if moved != 1 {
		t.Errorf("moved = %d, want 1", moved)
	}
	if m.RebalanceAvailable {
		t.Error("RebalanceAvailable still set after rebalance")
	}
	if m.LoadAdjustmentFactor != adaptive.RebalancePenaltyFactor {
		t.Errorf("LoadAdjustmentFactor = %v, want %v", m.LoadAdjustmentFactor, adaptive.RebalancePenaltyFactor)
	}

	moved, _, err = svc.Rebalance(ctx)
	if err != nil || moved != 0 {
		t.Errorf("second Rebalance() = %d, %v; want 0, nil", moved, err)
	}

	_, _, err = svc.ToggleTask(ctx, dayID, "no-such-task")
	if !errors.Is(err, adaptive.ErrTaskNotFound) {
		t.Errorf("ToggleTask(unknown) error = %v, want ErrTaskNotFound", err)
	}

	prevRate := svc.Session().Results.Adaptive.CompletionRate
	res, err = svc.Generate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	hist := svc.Session().History
	if hist.Len() != 1 || hist.CompletionRates[0] != prevRate {
		t.Errorf("History = %+v, want one entry with rate %v", hist, prevRate)
	}
	if stress, _ := hist.LastStress(); stress != backlog.StressModerate.Value() {
		t.Errorf("LastStress = %d, want %d", stress, backlog.StressModerate.Value())
	}
	if want := 4 * adaptive.RebalancePenaltyFactor; math.Abs(res.Allocation.AdjustedCapacity-want) > 1e-9 {
		t.Errorf("AdjustedCapacity = %v, want %v", res.Allocation.AdjustedCapacity, want)
	}

	events, err := st.EventRepo().QueryPlanEvents(ctx, store.QueryOpts{SessionKey: "test"})
	if err != nil {
		t.Fatal(err)
	}
	var actions []string
	for _, e := range events {
		actions = append(actions, e.Action)
	}
	want := "generate,rebalance,toggle,toggle,generate"
	if got := strings.Join(actions, ","); got != want {
		t.Errorf("events = %s, want %s", got, want)
	}
}

func TestImport(t *testing.T) {
	svc := newService(t, store.NewMemorySessionRepo())
	seed(t, svc)
	ctx := context.Background()

	imp, err := backlog.Parse(strings.NewReader(`
profile:
  daily_hours: 6
  pace: fast
  stress: low
subjects:
  - name: Biology
    chapters: 6
    difficulty: moderate
    deadline: "2026-11-20"
`))
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Import(ctx, imp, false); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if got := len(svc.Session().Subjects); got != 3 {
		t.Errorf("subjects after merge = %d, want 3", got)
	}
	if err := svc.Import(ctx, imp, true); err != nil {
		t.Fatal(err)
	}
	sess := svc.Session()
	if len(sess.Subjects) != 1 || sess.Subjects[0].Name != "Biology" {
		t.Errorf("subjects after replace = %+v, want only Biology", sess.Subjects)
	}
	if sess.Profile.DailyHours != 6 || sess.Profile.Pace != backlog.PaceFast {
		t.Errorf("Profile = %+v, want imported profile", sess.Profile)
	}
}

func TestSetMaterials(t *testing.T) {
	svc := newService(t, store.NewMemorySessionRepo())
	ctx := context.Background()
	if err := svc.SetMaterials(ctx, []byte(`{"files":["notes.pdf"]}`)); err != nil {
		t.Fatalf("SetMaterials() error = %v", err)
	}
	if got := string(svc.Session().Materials); got != `{"files":["notes.pdf"]}` {
		t.Errorf("Materials = %s", got)
	}
	if err := svc.SetMaterials(ctx, []byte(`{`)); err == nil {
		t.Error("SetMaterials(invalid) error = nil")
	}
}

func TestReset(t *testing.T) {
	repo := store.NewMemorySessionRepo()
	svc := newService(t, repo)
	seed(t, svc)
	if err := svc.Reset(context.Background()); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if got := len(svc.Session().Subjects); got != 0 {
		t.Errorf("subjects = %d, want 0", got)
	}
	data, _ := repo.Load(context.Background(), "test")
	if data != nil {
		t.Error("session still stored after reset")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	sess := NewSession()
	sess.Subjects = []backlog.Subject{backlog.NewSubject("Math", 3, backlog.DifficultyLow, dateIn(7))}
	res := Run(sess.Subjects, sess.Profile, sess.History, sess.LoadFactor, testToday)
	sess.Results = &res

	data, err := encodeSession(sess)
	if err != nil {
		t.Fatal(err)
	}
	got, err := decodeSession(data)
	if err != nil {
		t.Fatalf("decodeSession() error = %v", err)
	}
	if len(got.Results.Plan.Tasks()) != len(res.Plan.Tasks()) {
		t.Errorf("tasks = %d, want %d", len(got.Results.Plan.Tasks()), len(res.Plan.Tasks()))
	}

	if _, err := decodeSession([]byte(`{"version":99}`)); err == nil {
		t.Error("decodeSession(future version) error = nil")
	}
	got, err = decodeSession([]byte(`{"version":1,"load_factor":0}`))
	if err != nil {
		t.Fatal(err)
	}
	if got.LoadFactor != 1.0 {
		t.Errorf("LoadFactor = %v, want default 1.0", got.LoadFactor)
	}
}
