package services

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubevents/internal/clock"
	"clubevents/internal/domain"
)

type eventFixture struct {
	db  *memDB
	dir *fakeDirectory
	svc domain.EventService
	now time.Time
}

func newEventFixture() *eventFixture {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	db := newMemDB()
	dir := newDirectory()
	dir.addClub("club-1", "owner")
	dir.addMember("club-1", "member", domain.ClubRoleMember)
	dir.addMember("club-1", "leader", domain.ClubRoleLeader)
	dir.addClub("club-2", "other-owner")
	svc := NewEventService(memEvents{db}, memParticipations{db}, NewAdmission(dir), clock.NewFixed(now), testTimeout)
	return &eventFixture{db: db, dir: dir, svc: svc, now: now}
}

func (f *eventFixture) input(actor string, kind domain.EventKind, capacity *int) domain.CreateEventInput {
	return domain.CreateEventInput{
		ClubID:   "club-1",
		ActorID:  actor,
		Title:    "  Saturday hike ",
		Kind:     kind,
		Capacity: capacity,
		StartsAt: f.now.Add(24 * time.Hour),
		EndsAt:   f.now.Add(28 * time.Hour),
	}
}

func intPtr(n int) *int { return &n }

func TestEventService_CreateEvent(t *testing.T) {
	f := newEventFixture()

	t.Run("leader creates regular event with channel", func(t *testing.T) {
		ev, err := f.svc.CreateEvent(context.Background(), f.input("leader", domain.EventKindRegular, intPtr(10)))
		require.NoError(t, err)
		assert.NotEmpty(t, ev.ID)
		assert.NotEmpty(t, ev.ChannelID)
		assert.Equal(t, "Saturday hike", ev.Title)
		assert.Equal(t, "leader", ev.OwnerID)
		assert.Equal(t, f.now, ev.CreatedAt)

		ch := f.db.channel(ev.ChannelID)
		assert.Equal(t, domain.ChannelKindEvent, ch.Kind)
		assert.Equal(t, ev.ID, ch.EventID)
	})

	t.Run("member creates unlimited lightning event", func(t *testing.T) {
		ev, err := f.svc.CreateEvent(context.Background(), f.input("member", domain.EventKindLightning, nil))
		require.NoError(t, err)
		assert.Nil(t, ev.Capacity)
	})

	tests := []struct {
		name    string
		mutate  func(in *domain.CreateEventInput)
		wantErr error
	}{
		{"member cannot create mt", func(in *domain.CreateEventInput) { in.ActorID = "member"; in.Kind = domain.EventKindMT }, domain.ErrRoleRequired},
		{"outsider", func(in *domain.CreateEventInput) { in.ActorID = "stranger" }, domain.ErrNotClubMember},
		{"anonymous", func(in *domain.CreateEventInput) { in.ActorID = "" }, domain.ErrUnauthorized},
		{"blank title", func(in *domain.CreateEventInput) { in.Title = "   " }, domain.ErrInvalidInput},
		{"long title", func(in *domain.CreateEventInput) { in.Title = strings.Repeat("x", 201) }, domain.ErrInvalidInput},
		{"zero capacity", func(in *domain.CreateEventInput) { in.Capacity = intPtr(0) }, domain.ErrInvalidCapacity},
		{"capacity above int32", func(in *domain.CreateEventInput) { in.Capacity = intPtr(math.MaxInt32 + 1) }, domain.ErrInvalidCapacity},
		{"ends before start", func(in *domain.CreateEventInput) { in.EndsAt = in.StartsAt.Add(-time.Minute) }, domain.ErrInvalidSchedule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.input("leader", domain.EventKindLightning, intPtr(5))
			tt.mutate(&in)
			_, err := f.svc.CreateEvent(context.Background(), in)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEventService_GetEvent(t *testing.T) {
	f := newEventFixture()
	ev, err := f.svc.CreateEvent(context.Background(), f.input("leader", domain.EventKindRegular, intPtr(3)))
	require.NoError(t, err)
	f.db.addParticipation(domain.Participation{EventID: ev.ID, UserID: "member", Participated: true})
	f.db.addParticipation(domain.Participation{EventID: ev.ID, UserID: "owner", Participated: false})

	got, err := f.svc.GetEvent(context.Background(), "club-1", ev.ID, "member")
	require.NoError(t, err)
	assert.Equal(t, 1, got.AttendeeCount)

	_, err = f.svc.GetEvent(context.Background(), "club-1", ev.ID, "stranger")
	require.ErrorIs(t, err, domain.ErrNotClubMember)

	f.dir.addMember("club-2", "member", domain.ClubRoleMember)
	_, err = f.svc.GetEvent(context.Background(), "club-2", ev.ID, "member")
	require.ErrorIs(t, err, domain.ErrClubMismatch)

	_, err = f.svc.GetEvent(context.Background(), "club-1", "missing", "member")
	require.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestEventService_ListClubEvents(t *testing.T) {
	f := newEventFixture()
	for i := 0; i < 3; i++ {
		_, err := f.svc.CreateEvent(context.Background(), f.input("member", domain.EventKindLightning, nil))
		require.NoError(t, err)
	}

	events, total, err := f.svc.ListClubEvents(context.Background(), "club-1", "member", domain.PaginationParams{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, events, 2)

	_, _, err = f.svc.ListClubEvents(context.Background(), "club-1", "stranger", domain.PaginationParams{Page: 1, PageSize: 2})
	require.ErrorIs(t, err, domain.ErrNotClubMember)

	events, total, err = f.svc.ListClubEvents(context.Background(), "club-2", "other-owner", domain.PaginationParams{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, events)
}

func TestEventService_UpdateAndDelete(t *testing.T) {
	f := newEventFixture()
	ev, err := f.svc.CreateEvent(context.Background(), f.input("member", domain.EventKindLightning, intPtr(4)))
	require.NoError(t, err)

	title := "Night hike"
	updated, err := f.svc.UpdateEvent(context.Background(), "club-1", ev.ID, "member", domain.EventUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Night hike", updated.Title)
	assert.Equal(t, 4, *updated.Capacity)

	_, err = f.svc.UpdateEvent(context.Background(), "club-1", ev.ID, "leader", domain.EventUpdate{Title: &title})
	require.ErrorIs(t, err, domain.ErrNotEventOwner)

	early := ev.StartsAt.Add(-time.Hour)
	_, err = f.svc.UpdateEvent(context.Background(), "club-1", ev.ID, "member", domain.EventUpdate{EndsAt: &early})
	require.ErrorIs(t, err, domain.ErrInvalidSchedule)

	require.ErrorIs(t, f.svc.DeleteEvent(context.Background(), "club-1", ev.ID, "leader"), domain.ErrNotEventOwner)
	require.NoError(t, f.svc.DeleteEvent(context.Background(), "club-1", ev.ID, "member"))
	_, err = f.svc.GetEvent(context.Background(), "club-1", ev.ID, "member")
	require.ErrorIs(t, err, domain.ErrEventNotFound)
}
