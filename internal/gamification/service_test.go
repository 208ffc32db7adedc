package gamification

import (
	"errors"
	"testing"
	"time"

	"github.com/finlingo/backend/internal/models"
)

// fakeStore is an in-memory Storage used to exercise the service paths that
// normally hit Postgres. Award and streak writes keep the store's conditional
// semantics: an award only lands once, and the streak CAS can be made to fail
// to simulate a concurrent writer.
type fakeStore struct {
	stats      map[int64]*models.ProfileStats
	totalGems  map[int64]int64
	defs       []models.AchievementDef
	earned     map[int64]map[int64]bool
	streaks    map[int64]models.StreakState
	activities []models.UserActivity

	denyAward     bool
	failStreakCAS int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		stats:     map[int64]*models.ProfileStats{},
		totalGems: map[int64]int64{},
		earned:    map[int64]map[int64]bool{},
		streaks:   map[int64]models.StreakState{},
	}
}

func (f *fakeStore) addProfile(userID int64, stats models.ProfileStats) {
	stats.UserID = userID
	if stats.TopicsCompleted == nil {
		stats.TopicsCompleted = map[string]bool{}
	}
	f.stats[userID] = &stats
	f.earned[userID] = map[int64]bool{}
}

func (f *fakeStore) seedDefault() {
	f.defs = nil
	for i, def := range DefaultCatalog {
		def.ID = int64(i + 1)
		def.IsActive = true
		f.defs = append(f.defs, def)
	}
}

func (f *fakeStore) GetProfile(userID int64) (*models.UserProfile, error) {
	if _, ok := f.stats[userID]; !ok {
		return nil, models.ErrNotFound
	}
	return &models.UserProfile{UserID: userID}, nil
}

func (f *fakeStore) UpdateProfile(userID int64, req models.UpdateProfileRequest) error {
	if _, ok := f.stats[userID]; !ok {
		return models.ErrNotFound
	}
	return nil
}

func (f *fakeStore) GetProfileStats(userID int64) (*models.ProfileStats, error) {
	stats, ok := f.stats[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *stats
	return &copied, nil
}

func (f *fakeStore) ProfileExists(userID int64) (bool, error) {
	_, ok := f.stats[userID]
	return ok, nil
}

func (f *fakeStore) SeedCatalog(defs []models.AchievementDef) error { return nil }

func (f *fakeStore) ActiveDefinitions() ([]models.AchievementDef, error) {
	return f.defs, nil
}

func (f *fakeStore) EarnedIDs(userID int64) (map[int64]bool, error) {
	earned := map[int64]bool{}
	for id := range f.earned[userID] {
		earned[id] = true
	}
	return earned, nil
}

func (f *fakeStore) AwardAchievement(userID, achievementID, rewardXP, rewardGems int64) (bool, error) {
	if f.denyAward || f.earned[userID][achievementID] {
		return false, nil
	}
	f.earned[userID][achievementID] = true
	f.stats[userID].TotalXP += rewardXP
	f.totalGems[userID] += rewardGems
	return true, nil
}

func (f *fakeStore) ListEarned(userID int64) ([]models.EarnedAchievement, error) {
	return nil, nil
}

func (f *fakeStore) GetStreak(userID int64) (*models.StreakState, error) {
	st, ok := f.streaks[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &st, nil
}

func (f *fakeStore) CreateStreak(userID int64, day time.Time) (bool, error) {
	if _, ok := f.streaks[userID]; ok {
		return false, nil
	}
	f.streaks[userID] = models.StreakState{
		UserID:           userID,
		CurrentStreak:    1,
		LongestStreak:    1,
		LastActivityDate: day,
	}
	return true, nil
}

func (f *fakeStore) UpdateStreakIfUnchanged(userID int64, prevDate time.Time, next models.StreakState) (bool, error) {
	if f.failStreakCAS > 0 {
		f.failStreakCAS--
		// Another request wins the race and applies the same advance.
		f.streaks[userID] = next
		return false, nil
	}
	st, ok := f.streaks[userID]
	if !ok || !st.LastActivityDate.Equal(prevDate) {
		return false, nil
	}
	f.streaks[userID] = next
	return true, nil
}

func (f *fakeStore) SyncProfileStreak(userID int64, current, longest int) error {
	if stats, ok := f.stats[userID]; ok {
		stats.CurrentStreak = current
	}
	return nil
}

func (f *fakeStore) RecordActivity(a models.UserActivity) error {
	stats, ok := f.stats[a.UserID]
	if !ok {
		return models.ErrNotFound
	}
	f.activities = append(f.activities, a)
	stats.TotalXP += a.XPEarned
	f.totalGems[a.UserID] += a.GemsEarned
	return nil
}

func (f *fakeStore) RecentActivities(userID int64, limit int) ([]models.UserActivity, error) {
	return f.activities, nil
}

func (f *fakeStore) GlobalLeaderboard(limit int) ([]models.LeaderboardEntry, error) {
	return nil, nil
}

func (f *fakeStore) WindowedLeaderboard(start time.Time, limit int) ([]models.LeaderboardEntry, error) {
	return nil, nil
}

func serviceAt(store Storage, now time.Time) *Service {
	svc := NewService(store)
	svc.now = func() time.Time { return now }
	return svc
}

func defNames(defs []models.AchievementDef) []string {
	names := []string{}
	for _, d := range defs {
		names = append(names, d.Name)
	}
	return names
}

// ── Evaluate ────────────────────────────────────────────

func TestEvaluateAwardsExactlyOnce(t *testing.T) {
	store := newFakeStore()
	store.seedDefault()
	store.addProfile(1, models.ProfileStats{LessonsCompleted: 1})
	svc := serviceAt(store, day(2026, 3, 11))

	newly, err := svc.Evaluate(1, models.ActivityEvent{})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(newly) != 1 || newly[0].Name != "Getting Started" {
		t.Fatalf("want [Getting Started], got %v", defNames(newly))
	}
	if store.stats[1].TotalXP != 50 || store.totalGems[1] != 10 {
		t.Errorf("totals = %d xp, %d gems; want 50, 10", store.stats[1].TotalXP, store.totalGems[1])
	}

	again, err := svc.Evaluate(1, models.ActivityEvent{})
	if err != nil {
		t.Fatalf("re-evaluate: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("second evaluate awarded %v, want none", defNames(again))
	}
	if store.stats[1].TotalXP != 50 || store.totalGems[1] != 10 {
		t.Errorf("totals changed on re-evaluate: %d xp, %d gems", store.stats[1].TotalXP, store.totalGems[1])
	}
}

func TestEvaluateRewardDeltaMatchesAwards(t *testing.T) {
	store := newFakeStore()
	store.seedDefault()
	store.addProfile(1, models.ProfileStats{TotalXP: 600, LessonsCompleted: 1})
	svc := serviceAt(store, day(2026, 3, 11))

	xpBefore := store.stats[1].TotalXP
	gemsBefore := store.totalGems[1]

	newly, err := svc.Evaluate(1, models.ActivityEvent{})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	var wantXP, wantGems int64
	for _, def := range newly {
		wantXP += def.RewardXP
		wantGems += def.RewardGems
	}
	if len(newly) != 2 {
		t.Fatalf("want 2 awards (lessons and xp thresholds), got %v", defNames(newly))
	}
	if gotXP := store.stats[1].TotalXP - xpBefore; gotXP != wantXP {
		t.Errorf("xp delta = %d, want %d", gotXP, wantXP)
	}
	if gotGems := store.totalGems[1] - gemsBefore; gotGems != wantGems {
		t.Errorf("gems delta = %d, want %d", gotGems, wantGems)
	}
}

func TestEvaluateSkipsLostAwardRace(t *testing.T) {
	store := newFakeStore()
	store.seedDefault()
	store.addProfile(1, models.ProfileStats{LessonsCompleted: 1})
	store.denyAward = true
	svc := serviceAt(store, day(2026, 3, 11))

	newly, err := svc.Evaluate(1, models.ActivityEvent{})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(newly) != 0 {
		t.Errorf("lost insert race still reported %v", defNames(newly))
	}
	if store.stats[1].TotalXP != 0 || store.totalGems[1] != 0 {
		t.Errorf("lost insert race still applied rewards: %d xp, %d gems", store.stats[1].TotalXP, store.totalGems[1])
	}
}

func TestEvaluateMissingProfile(t *testing.T) {
	store := newFakeStore()
	store.seedDefault()
	svc := serviceAt(store, day(2026, 3, 11))

	if _, err := svc.Evaluate(42, models.ActivityEvent{}); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestRecordedActivityXPUnlocksThreshold(t *testing.T) {
	store := newFakeStore()
	store.seedDefault()
	store.addProfile(1, models.ProfileStats{})
	svc := serviceAt(store, day(2026, 3, 11))

	for _, xp := range []int64{200, 200, 100} {
		if _, err := svc.RecordActivity(models.UserActivity{UserID: 1, ActivityType: "practice", XPEarned: xp}); err != nil {
			t.Fatalf("record activity: %v", err)
		}
	}
	if store.stats[1].TotalXP != 500 {
		t.Fatalf("total xp = %d, want 500", store.stats[1].TotalXP)
	}

	newly, err := svc.Evaluate(1, models.ActivityEvent{})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(newly) != 1 || newly[0].Name != "Knowledge Seeker" {
		t.Fatalf("want [Knowledge Seeker], got %v", defNames(newly))
	}
}

// ── TouchStreak ─────────────────────────────────────────

func TestTouchStreakLifecycle(t *testing.T) {
	store := newFakeStore()
	store.addProfile(1, models.ProfileStats{})
	svc := serviceAt(store, day(2026, 3, 1))

	st, err := svc.TouchStreak(1)
	if err != nil {
		t.Fatalf("first touch: %v", err)
	}
	if st.CurrentStreak != 1 || st.LongestStreak != 1 {
		t.Fatalf("first touch = %d/%d, want 1/1", st.CurrentStreak, st.LongestStreak)
	}

	// Same day again is a no-op.
	st, err = svc.TouchStreak(1)
	if err != nil {
		t.Fatalf("same-day touch: %v", err)
	}
	if st.CurrentStreak != 1 {
		t.Fatalf("same-day touch = %d, want 1", st.CurrentStreak)
	}

	svc.now = func() time.Time { return day(2026, 3, 2) }
	st, err = svc.TouchStreak(1)
	if err != nil {
		t.Fatalf("next-day touch: %v", err)
	}
	if st.CurrentStreak != 2 || st.LongestStreak != 2 {
		t.Fatalf("next-day touch = %d/%d, want 2/2", st.CurrentStreak, st.LongestStreak)
	}

	// A missed day resets the current streak but keeps the longest.
	svc.now = func() time.Time { return day(2026, 3, 5) }
	st, err = svc.TouchStreak(1)
	if err != nil {
		t.Fatalf("gap touch: %v", err)
	}
	if st.CurrentStreak != 1 || st.LongestStreak != 2 {
		t.Fatalf("gap touch = %d/%d, want 1/2", st.CurrentStreak, st.LongestStreak)
	}
}

func TestTouchStreakRetriesLostUpdate(t *testing.T) {
	store := newFakeStore()
	store.addProfile(1, models.ProfileStats{})
	store.streaks[1] = models.StreakState{
		UserID:           1,
		CurrentStreak:    1,
		LongestStreak:    1,
		LastActivityDate: day(2026, 3, 1),
	}
	store.failStreakCAS = 1
	svc := serviceAt(store, day(2026, 3, 2))

	st, err := svc.TouchStreak(1)
	if err != nil {
		t.Fatalf("touch: %v", err)
	}
	if st.CurrentStreak != 2 {
		t.Fatalf("streak after lost update = %d, want 2", st.CurrentStreak)
	}
	if stored := store.streaks[1]; stored.CurrentStreak != 2 {
		t.Errorf("stored streak = %d, want 2", stored.CurrentStreak)
	}
}

func TestTouchStreakMissingProfile(t *testing.T) {
	store := newFakeStore()
	svc := serviceAt(store, day(2026, 3, 1))

	if _, err := svc.TouchStreak(42); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

// ── GetStreak ───────────────────────────────────────────

func TestGetStreakMissingProfile(t *testing.T) {
	store := newFakeStore()
	svc := serviceAt(store, day(2026, 3, 1))

	if _, err := svc.GetStreak(42); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGetStreakEmptyBeforeFirstActivity(t *testing.T) {
	store := newFakeStore()
	store.addProfile(1, models.ProfileStats{})
	svc := serviceAt(store, day(2026, 3, 1))

	st, err := svc.GetStreak(1)
	if err != nil {
		t.Fatalf("get streak: %v", err)
	}
	if st.UserID != 1 || st.CurrentStreak != 0 || st.LongestStreak != 0 {
		t.Fatalf("empty streak = %+v", st)
	}
}
