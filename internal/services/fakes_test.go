package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"clubevents/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const testTimeout = 5 * time.Second

// stepClock advances by step on every call.
type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// memDB is an in-memory store with row locks and rollback, shared by the
// repository fakes below.
type memDB struct {
	mu       sync.Mutex
	seq      int
	events   map[string]*domain.Event
	parts    map[string]map[string]*domain.Participation
	channels map[string]*domain.Channel
	locks    map[string]*sync.Mutex

	failSetParticipated error
}

func newMemDB() *memDB {
	return &memDB{
		events:   map[string]*domain.Event{},
		parts:    map[string]map[string]*domain.Participation{},
		channels: map[string]*domain.Channel{},
		locks:    map[string]*sync.Mutex{},
	}
}

type memTx struct {
	held []*sync.Mutex
	undo []func()
}

type memTxKey struct{}

func txOf(ctx context.Context) *memTx {
	tx, _ := ctx.Value(memTxKey{}).(*memTx)
	return tx
}

func (db *memDB) withTx(ctx context.Context, fn func(context.Context) error) error {
	if txOf(ctx) != nil {
		return fn(ctx)
	}
	tx := &memTx{}
	err := fn(context.WithValue(ctx, memTxKey{}, tx))
	if err != nil {
		db.mu.Lock()
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		db.mu.Unlock()
	}
	for i := len(tx.held) - 1; i >= 0; i-- {
		tx.held[i].Unlock()
	}
	return err
}

// lock takes the row lock for key until the transaction in ctx ends.
func (db *memDB) lock(ctx context.Context, key string) error {
	tx := txOf(ctx)
	if tx == nil {
		return errors.New("no transaction in context")
	}
	db.mu.Lock()
	l, ok := db.locks[key]
	if !ok {
		l = &sync.Mutex{}
		db.locks[key] = l
	}
	db.mu.Unlock()
	l.Lock()
	tx.held = append(tx.held, l)
	return nil
}

// onRollback registers an undo step; must be called with db.mu held.
func (db *memDB) onRollback(ctx context.Context, fn func()) {
	if tx := txOf(ctx); tx != nil {
		tx.undo = append(tx.undo, fn)
	}
}

func (db *memDB) nextID(prefix string) string {
	db.seq++
	return fmt.Sprintf("%s-%d", prefix, db.seq)
}

func (db *memDB) addEvent(e *domain.Event) {
	db.mu.Lock()
	defer db.mu.Unlock()
	cp := *e
	db.events[e.ID] = &cp
	if e.ChannelID != "" {
		db.channels[e.ChannelID] = &domain.Channel{ID: e.ChannelID, ClubID: e.ClubID, EventID: e.ID, Kind: domain.ChannelKindEvent}
	}
	if db.parts[e.ID] == nil {
		db.parts[e.ID] = map[string]*domain.Participation{}
	}
}

func (db *memDB) addParticipation(p domain.Participation) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.parts[p.EventID] == nil {
		db.parts[p.EventID] = map[string]*domain.Participation{}
	}
	db.parts[p.EventID][p.UserID] = &p
}

func (db *memDB) participation(eventID, userID string) (domain.Participation, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.parts[eventID][userID]
	if !ok {
		return domain.Participation{}, false
	}
	return *p, true
}

func (db *memDB) confirmedIDs(eventID string) []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	ids := []string{}
	for id, p := range db.parts[eventID] {
		if p.Confirmed {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (db *memDB) channel(id string) domain.Channel {
	db.mu.Lock()
	defer db.mu.Unlock()
	return *db.channels[id]
}

type memEvents struct{ db *memDB }

func (r memEvents) Create(ctx context.Context, e *domain.Event) error {
	r.db.mu.Lock()
	e.ID = r.db.nextID("ev")
	e.ChannelID = r.db.nextID("ch")
	r.db.mu.Unlock()
	r.db.addEvent(e)
	return nil
}

func (r memEvents) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (r memEvents) ListByClubID(ctx context.Context, clubID string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var all []*domain.Event
	for _, e := range r.db.events {
		if e.ClubID == clubID {
			cp := *e
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartsAt.After(all[j].StartsAt) })
	total := len(all)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.Limit()
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r memEvents) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if upd.Title != nil {
		e.Title = *upd.Title
	}
	if upd.Description != nil {
		e.Description = *upd.Description
	}
	if upd.StartsAt != nil {
		e.StartsAt = *upd.StartsAt
	}
	if upd.EndsAt != nil {
		e.EndsAt = *upd.EndsAt
	}
	cp := *e
	return &cp, nil
}

func (r memEvents) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	delete(r.db.events, id)
	delete(r.db.parts, id)
	delete(r.db.channels, e.ChannelID)
	return nil
}

type memParticipations struct{ db *memDB }

func (r memParticipations) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return r.db.withTx(ctx, fn)
}

func (r memParticipations) LockEvent(ctx context.Context, eventID string) error {
	if err := r.db.lock(ctx, "event:"+eventID); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.events[eventID]; !ok {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r memParticipations) Get(ctx context.Context, eventID, userID string) (*domain.Participation, error) {
	p, ok := r.db.participation(eventID, userID)
	if !ok {
		return nil, domain.ErrNotParticipant
	}
	return &p, nil
}

func (r memParticipations) Create(ctx context.Context, p *domain.Participation) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.parts[p.EventID] == nil {
		r.db.parts[p.EventID] = map[string]*domain.Participation{}
	}
	if _, ok := r.db.parts[p.EventID][p.UserID]; ok {
		return domain.ErrConflict
	}
	cp := *p
	r.db.parts[p.EventID][p.UserID] = &cp
	r.db.onRollback(ctx, func() { delete(r.db.parts[p.EventID], p.UserID) })
	return nil
}

func (r memParticipations) SetParticipated(ctx context.Context, eventID, userID string, participated bool, at time.Time) (*domain.Participation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failSetParticipated != nil {
		return nil, r.db.failSetParticipated
	}
	p, ok := r.db.parts[eventID][userID]
	if !ok {
		return nil, domain.ErrNotParticipant
	}
	prev := *p
	p.Participated = participated
	p.UpdatedAt = at
	r.db.onRollback(ctx, func() { *p = prev })
	cp := *p
	return &cp, nil
}

func (r memParticipations) CountParticipating(ctx context.Context, eventID string) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n := 0
	for _, p := range r.db.parts[eventID] {
		if p.Participated {
			n++
		}
	}
	return n, nil
}

func (r memParticipations) ListByEventID(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Participation, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var list []*domain.Participation
	for _, p := range r.db.parts[eventID] {
		cp := *p
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].JoinedAt.Equal(list[j].JoinedAt) {
			return list[i].UserID < list[j].UserID
		}
		return list[i].JoinedAt.Before(list[j].JoinedAt)
	})
	return list, len(list), nil
}

type memChannels struct{ db *memDB }

func (r memChannels) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return r.db.withTx(ctx, fn)
}

func (r memChannels) GetByID(ctx context.Context, id string) (*domain.Channel, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.channels[id]
	if !ok {
		return nil, domain.ErrChannelNotFound
	}
	cp := *c
	return &cp, nil
}

func (r memChannels) GetForUpdate(ctx context.Context, id string) (*domain.Channel, error) {
	if err := r.db.lock(ctx, "channel:"+id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r memChannels) MissingParticipants(ctx context.Context, eventID string, userIDs []string) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var missing []string
	for _, id := range userIDs {
		if _, ok := r.db.parts[eventID][id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r memChannels) ResetConfirmed(ctx context.Context, eventID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.parts[eventID] {
		if p.Confirmed {
			p.Confirmed = false
			r.db.onRollback(ctx, func() { p.Confirmed = true })
		}
	}
	return nil
}

func (r memChannels) MarkConfirmed(ctx context.Context, eventID string, userIDs []string) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n := 0
	for _, id := range userIDs {
		p, ok := r.db.parts[eventID][id]
		if !ok {
			continue
		}
		if !p.Confirmed {
			p.Confirmed = true
			r.db.onRollback(ctx, func() { p.Confirmed = false })
		}
		n++
	}
	return n, nil
}

func (r memChannels) SaveSnapshot(ctx context.Context, channelID string, count int, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.channels[channelID]
	if !ok {
		return domain.ErrChannelNotFound
	}
	prev := *c
	c.Confirmed = true
	c.ConfirmedCount = count
	c.ConfirmedAt = &at
	r.db.onRollback(ctx, func() { *c = prev })
	return nil
}

func (r memChannels) ListConfirmed(ctx context.Context, eventID string) ([]string, error) {
	return r.db.confirmedIDs(eventID), nil
}

// fakeDirectory implements domain.MembershipDirectory.
type fakeDirectory struct {
	owners map[string]string
	roles  map[string]map[string]domain.ClubRole
	err    error
}

func newDirectory() *fakeDirectory {
	return &fakeDirectory{owners: map[string]string{}, roles: map[string]map[string]domain.ClubRole{}}
}

func (d *fakeDirectory) addClub(clubID, ownerID string) {
	d.owners[clubID] = ownerID
	d.roles[clubID] = map[string]domain.ClubRole{ownerID: domain.ClubRoleMember}
}

func (d *fakeDirectory) addMember(clubID, userID string, role domain.ClubRole) {
	d.roles[clubID][userID] = role
}

func (d *fakeDirectory) IsMember(ctx context.Context, clubID, userID string) (bool, error) {
	_, ok, err := d.RoleOf(ctx, clubID, userID)
	return ok, err
}

func (d *fakeDirectory) RoleOf(ctx context.Context, clubID, userID string) (domain.ClubRole, bool, error) {
	if d.err != nil {
		return "", false, d.err
	}
	role, ok := d.roles[clubID][userID]
	return role, ok, nil
}

func (d *fakeDirectory) OwnerOf(ctx context.Context, clubID string) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	owner, ok := d.owners[clubID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return owner, nil
}

// fakeEnroller records enrollments.
type fakeEnroller struct {
	mu     sync.Mutex
	calls  []string
	status domain.EnrollmentStatus
	err    error
}

func (e *fakeEnroller) Enroll(ctx context.Context, channelID, userID string) (domain.EnrollmentStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, channelID+":"+userID)
	if e.err != nil {
		return domain.EnrollmentFailed, e.err
	}
	if e.status == "" {
		return domain.EnrollmentEnrolled, nil
	}
	return e.status, nil
}

func (e *fakeEnroller) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}
