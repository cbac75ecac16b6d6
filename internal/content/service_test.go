// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/connect-web/internal/apiclient"
	"github.com/olegiv/connect-web/internal/cache"
	"github.com/olegiv/connect-web/internal/model"
	"github.com/olegiv/connect-web/internal/syncbus"
)

var (
	errNetwork      = &apiclient.Error{Kind: apiclient.KindNetwork, Err: errors.New("connection refused")}
	errServer       = &apiclient.Error{Kind: apiclient.KindServer, Status: 502}
	errUnauthorized = &apiclient.Error{Kind: apiclient.KindUnauthorized, Status: 401}
	errNotFound     = &apiclient.Error{Kind: apiclient.KindNotFound, Status: 404}
)

// fakeBackend records calls and returns canned results.
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	news      []model.News
	events    []model.Event
	users     []model.AdminUser
	summaries []model.EventSummary
	regs      map[int64]*model.EventRegistrations

	// holdList, when set, parks the next ListNews call after it has read
	// the list: the call sends on it, then waits to receive.
	holdList chan struct{}

	listNewsErr   error
	listEventsErr error
	getErr        error
	writeErr      error
	adminErr      error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		calls: make(map[string]int),
		news:  []model.News{{ID: 10, Title: "Live news", Category: "Ops", CreatedAt: time.Now()}},
		events: []model.Event{
			{ID: 20, Title: "Live event", Date: time.Now(), EndDate: time.Now().Add(time.Hour), Capacity: 10, RegisteredCount: 2},
		},
		regs: make(map[int64]*model.EventRegistrations),
	}
}

func (f *fakeBackend) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) ListNews(context.Context) ([]model.News, error) {
	f.hit("ListNews")
	if f.listNewsErr != nil {
		return nil, f.listNewsErr
	}
	f.mu.Lock()
	items := append([]model.News(nil), f.news...)
	hold := f.holdList
	f.holdList = nil
	f.mu.Unlock()
	if hold != nil {
		hold <- struct{}{}
		<-hold
	}
	return items, nil
}

func (f *fakeBackend) GetNews(_ context.Context, id int64) (*model.News, error) {
	f.hit("GetNews")
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, n := range f.news {
		if n.ID == id {
			return &n, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeBackend) CreateNews(_ context.Context, in model.NewsInput) (*model.News, error) {
	f.hit("CreateNews")
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := model.News{ID: int64(100 + len(f.news)), Title: in.Title, Content: in.Content, Category: in.Category}
	f.news = append(f.news, n)
	return &n, nil
}

func (f *fakeBackend) UpdateNews(_ context.Context, id int64, in model.NewsInput) (*model.News, error) {
	f.hit("UpdateNews")
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return &model.News{ID: id, Title: in.Title}, nil
}

func (f *fakeBackend) DeleteNews(context.Context, int64) error {
	f.hit("DeleteNews")
	return f.writeErr
}

func (f *fakeBackend) ListEvents(context.Context) ([]model.Event, error) {
	f.hit("ListEvents")
	if f.listEventsErr != nil {
		return nil, f.listEventsErr
	}
	return append([]model.Event(nil), f.events...), nil
}

func (f *fakeBackend) GetEvent(_ context.Context, id int64) (*model.Event, error) {
	f.hit("GetEvent")
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, e := range f.events {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeBackend) CreateEvent(_ context.Context, in model.EventInput) (*model.Event, error) {
	f.hit("CreateEvent")
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return &model.Event{ID: 200, Title: in.Title}, nil
}

func (f *fakeBackend) UpdateEvent(_ context.Context, id int64, in model.EventInput) (*model.Event, error) {
	f.hit("UpdateEvent")
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return &model.Event{ID: id, Title: in.Title}, nil
}

func (f *fakeBackend) DeleteEvent(context.Context, int64) error {
	f.hit("DeleteEvent")
	return f.writeErr
}

func (f *fakeBackend) EventRegistrations(_ context.Context, eventID int64) (*model.EventRegistrations, error) {
	f.hit("EventRegistrations")
	if f.adminErr != nil {
		return nil, f.adminErr
	}
	r, ok := f.regs[eventID]
	if !ok {
		return nil, errNotFound
	}
	cp := *r
	cp.Registrations = append([]model.EventRegistration(nil), r.Registrations...)
	return &cp, nil
}

func (f *fakeBackend) RemoveRegistration(context.Context, int64, int64) error {
	f.hit("RemoveRegistration")
	return f.writeErr
}

func (f *fakeBackend) AdminUsers(context.Context) ([]model.AdminUser, error) {
	f.hit("AdminUsers")
	if f.adminErr != nil {
		return nil, f.adminErr
	}
	return f.users, nil
}

func (f *fakeBackend) SetCanCreateContent(context.Context, int64, bool) error {
	f.hit("SetCanCreateContent")
	return f.writeErr
}

func (f *fakeBackend) AdminEvents(context.Context) ([]model.EventSummary, error) {
	f.hit("AdminEvents")
	if f.adminErr != nil {
		return nil, f.adminErr
	}
	return f.summaries, nil
}

func (f *fakeBackend) UpdateAvatar(_ context.Context, _ int64, url string) (string, error) {
	f.hit("UpdateAvatar")
	if f.writeErr != nil {
		return "", f.writeErr
	}
	return url, nil
}

func (f *fakeBackend) DeleteAvatar(context.Context, int64) error {
	f.hit("DeleteAvatar")
	return f.writeErr
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []syncbus.ContentChanged
}

func (p *recordingPublisher) Publish(ev syncbus.ContentChanged) {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func newTestService(t *testing.T, api Backend, pub Publisher, opts Options) *Service {
	t.Helper()
	c := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(api, pub, c, opts, logger)
}

// cachedRegistrations returns the attendee list held for eventID.
func cachedRegistrations(t *testing.T, svc *Service, eventID int64) (model.EventRegistrations, bool) {
	t.Helper()
	regs, ok := svc.regs.Get(context.Background(), regsKey(eventID))
	if !ok {
		return model.EventRegistrations{}, false
	}
	return *regs, true
}

func jsonKeys(t *testing.T, v any) []string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestFetchFeed_Live(t *testing.T) {
	api := newFakeBackend()
	svc := newTestService(t, api, nil, Options{MockFallback: true})

	feed, err := svc.FetchFeed(context.Background())
	require.NoError(t, err)
	assert.False(t, feed.IsFallback())
	assert.Len(t, feed.News, 1)
	assert.Len(t, feed.Events, 1)
}

func TestFetchFeed_NetworkFailureUsesMockWithSameShape(t *testing.T) {
	live := newFakeBackend()
	liveSvc := newTestService(t, live, nil, Options{MockFallback: true})
	liveFeed, err := liveSvc.FetchFeed(context.Background())
	require.NoError(t, err)

	down := newFakeBackend()
	down.listNewsErr = errNetwork
	down.listEventsErr = errNetwork
	svc := newTestService(t, down, nil, Options{MockFallback: true})

	feed, err := svc.FetchFeed(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.Kind{model.KindNews, model.KindEvent}, feed.Fallback)
	require.Len(t, feed.News, 3)
	require.Len(t, feed.Events, 3)

	assert.Equal(t, jsonKeys(t, liveFeed.News[0]), jsonKeys(t, feed.News[0]))
	assert.Equal(t, jsonKeys(t, liveFeed.Events[0]), jsonKeys(t, feed.Events[0]))
}

func TestFetchFeed_KindsFallBackIndependently(t *testing.T) {
	api := newFakeBackend()
	api.listEventsErr = errServer
	svc := newTestService(t, api, nil, Options{MockFallback: true})

	feed, err := svc.FetchFeed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Kind{model.KindEvent}, feed.Fallback)
	assert.Equal(t, "Live news", feed.News[0].Title)
	assert.Len(t, feed.Events, 3)
}

func TestFetchFeed_UnauthorizedPropagates(t *testing.T) {
	api := newFakeBackend()
	api.listNewsErr = errUnauthorized
	svc := newTestService(t, api, nil, Options{MockFallback: true})

	_, err := svc.FetchFeed(context.Background())
	require.Error(t, err)
	assert.True(t, apiclient.IsUnauthorized(err))
}

func TestFetchFeed_FallbackDisabled(t *testing.T) {
	api := newFakeBackend()
	api.listNewsErr = errNetwork
	svc := newTestService(t, api, nil, Options{MockFallback: false})

	_, err := svc.FetchFeed(context.Background())
	require.Error(t, err)
	assert.True(t, apiclient.IsKind(err, apiclient.KindNetwork))
}

func TestFetchFeed_CachesLiveResultsOnly(t *testing.T) {
	api := newFakeBackend()
	svc := newTestService(t, api, nil, Options{MockFallback: true, TTL: time.Minute})
	ctx := context.Background()

	_, err := svc.FetchFeed(ctx)
	require.NoError(t, err)
	_, err = svc.FetchFeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, api.count("ListNews"))
	assert.Equal(t, 1, api.count("ListEvents"))

	down := newFakeBackend()
	down.listNewsErr = errNetwork
	svc2 := newTestService(t, down, nil, Options{MockFallback: true, TTL: time.Minute})
	_, _ = svc2.FetchFeed(ctx)
	_, _ = svc2.FetchFeed(ctx)
	assert.Equal(t, 2, down.count("ListNews"), "mock data must not be cached")
}

func TestListNews_ReadInFlightDuringWriteIsNotCached(t *testing.T) {
	api := newFakeBackend()
	hold := make(chan struct{})
	api.holdList = hold
	svc := newTestService(t, api, &recordingPublisher{}, Options{TTL: time.Minute})
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		items, _, err := svc.listNews(ctx)
		assert.NoError(t, err)
		assert.Len(t, items, 1)
	}()
	<-hold // the read holds the list from before the write

	created, err := svc.CreateNews(ctx, model.NewsInput{Title: "Fresh"})
	require.NoError(t, err)

	hold <- struct{}{}
	<-done

	items, _, err := svc.listNews(ctx)
	require.NoError(t, err)
	ids := make([]int64, len(items))
	for i, n := range items {
		ids[i] = n.ID
	}
	assert.Contains(t, ids, created.ID)
	assert.Equal(t, 2, api.count("ListNews"))
}

func TestInvalidateFeed_DropsOnlyItsKind(t *testing.T) {
	api := newFakeBackend()
	svc := newTestService(t, api, nil, Options{TTL: time.Minute})
	ctx := context.Background()

	_, err := svc.FetchFeed(ctx)
	require.NoError(t, err)

	_, err = svc.CreateEvent(ctx, model.EventInput{Title: "t"})
	require.NoError(t, err)
	_, err = svc.FetchFeed(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, api.count("ListNews"))
	assert.Equal(t, 2, api.count("ListEvents"))
}

func TestDropCachedLists(t *testing.T) {
	api := newFakeBackend()
	c := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := New(api, nil, c, Options{TTL: time.Minute}, logger)
	ctx := context.Background()

	_, err := svc.FetchFeed(ctx)
	require.NoError(t, err)

	// A second process sharing the cache drops what the first one stored.
	other := New(api, nil, c, Options{TTL: time.Minute}, logger)
	require.NoError(t, other.DropCachedLists(ctx))

	_, err = svc.FetchFeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, api.count("ListNews"))
	assert.Equal(t, 2, api.count("ListEvents"))
}

func TestFetchFeed_ForbiddenKindIsWithheld(t *testing.T) {
	api := newFakeBackend()
	api.listEventsErr = &apiclient.Error{Kind: apiclient.KindForbidden, Status: 403}
	svc := newTestService(t, api, nil, Options{MockFallback: true})

	feed, err := svc.FetchFeed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Kind{model.KindEvent}, feed.Withheld)
	assert.Empty(t, feed.Events)
	require.Len(t, feed.News, 1)
	assert.Equal(t, "Live news", feed.News[0].Title)
}

func TestFetchFeed_FailureKeepsOtherKind(t *testing.T) {
	api := newFakeBackend()
	api.listNewsErr = errNetwork
	svc := newTestService(t, api, nil, Options{MockFallback: false})

	feed, err := svc.FetchFeed(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, api.count("ListEvents"))
	require.Len(t, feed.Events, 1)
	assert.Equal(t, "Live event", feed.Events[0].Title)
}

func TestFetchOne(t *testing.T) {
	ctx := context.Background()

	t.Run("live", func(t *testing.T) {
		svc := newTestService(t, newFakeBackend(), nil, Options{MockFallback: true})
		d, err := svc.FetchOne(ctx, model.KindEvent, 20)
		require.NoError(t, err)
		assert.False(t, d.Fallback)
		assert.Equal(t, "Live event", d.Title())
	})

	t.Run("backend 404", func(t *testing.T) {
		svc := newTestService(t, newFakeBackend(), nil, Options{MockFallback: true})
		_, err := svc.FetchOne(ctx, model.KindNews, 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("fallback same id", func(t *testing.T) {
		api := newFakeBackend()
		api.getErr = errNetwork
		svc := newTestService(t, api, nil, Options{MockFallback: true})
		d, err := svc.FetchOne(ctx, model.KindNews, 2)
		require.NoError(t, err)
		assert.True(t, d.Fallback)
		assert.Equal(t, int64(2), d.ID())
	})

	t.Run("fallback never fabricates an id", func(t *testing.T) {
		api := newFakeBackend()
		api.getErr = errNetwork
		svc := newTestService(t, api, nil, Options{MockFallback: true})
		_, err := svc.FetchOne(ctx, model.KindEvent, 42)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCreateNews_NetworkFailureLeavesListUnchanged(t *testing.T) {
	api := newFakeBackend()
	pub := &recordingPublisher{}
	svc := newTestService(t, api, pub, Options{MockFallback: true, TTL: time.Minute})
	ctx := context.Background()

	before, _, err := svc.listNews(ctx)
	require.NoError(t, err)

	api.writeErr = errNetwork
	n, err := svc.CreateNews(ctx, model.NewsInput{Title: "Draft"})
	assert.Nil(t, n)
	require.Error(t, err)
	assert.True(t, IsWriteFailure(err))
	assert.True(t, apiclient.IsKind(err, apiclient.KindNetwork))

	after, _, err := svc.listNews(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 0, pub.count())
}

func TestWrites_PublishExactlyOnce(t *testing.T) {
	ctx := context.Background()
	writes := map[string]func(*Service) error{
		"create news":  func(s *Service) error { _, err := s.CreateNews(ctx, model.NewsInput{Title: "t"}); return err },
		"update news":  func(s *Service) error { _, err := s.UpdateNews(ctx, 10, model.NewsInput{Title: "t"}); return err },
		"delete news":  func(s *Service) error { return s.DeleteNews(ctx, 10) },
		"create event": func(s *Service) error { _, err := s.CreateEvent(ctx, model.EventInput{Title: "t"}); return err },
		"update event": func(s *Service) error { _, err := s.UpdateEvent(ctx, 20, model.EventInput{Title: "t"}); return err },
		"delete event": func(s *Service) error { return s.DeleteEvent(ctx, 20) },
	}

	for name, write := range writes {
		t.Run(name, func(t *testing.T) {
			pub := &recordingPublisher{}
			svc := newTestService(t, newFakeBackend(), pub, Options{})
			require.NoError(t, write(svc))
			assert.Equal(t, 1, pub.count())
		})
	}
}

func TestWrite_LiveViewRefetchesOnce(t *testing.T) {
	bus := syncbus.New()
	sub := bus.Subscribe()
	defer sub.Unsubscribe()

	api := newFakeBackend()
	svc := newTestService(t, api, bus, Options{TTL: time.Minute})
	ctx := context.Background()

	_, err := svc.FetchFeed(ctx)
	require.NoError(t, err)

	_, err = svc.CreateNews(ctx, model.NewsInput{Title: "Fresh"})
	require.NoError(t, err)

	refetches := 0
	for {
		select {
		case <-sub.C:
			refetches++
			feed, err := svc.FetchFeed(ctx)
			require.NoError(t, err)
			assert.Len(t, feed.News, 2, "cache must be invalidated before publish")
			continue
		case <-time.After(50 * time.Millisecond):
		}
		break
	}
	assert.Equal(t, 1, refetches)
}

func TestWrite_DemoModeRefuses(t *testing.T) {
	api := newFakeBackend()
	pub := &recordingPublisher{}
	svc := newTestService(t, api, pub, Options{DemoMode: true})

	_, err := svc.CreateNews(context.Background(), model.NewsInput{Title: "x"})
	assert.ErrorIs(t, err, ErrDemoReadOnly)
	assert.Equal(t, 0, api.count("CreateNews"))
	assert.Equal(t, 0, pub.count())
}

func loadRegistrations(t *testing.T, svc *Service, eventID int64) model.EventRegistrations {
	t.Helper()
	regs, _, err := svc.Registrations(context.Background(), eventID)
	require.NoError(t, err)
	return regs
}

func TestRemoveRegistration_DecrementsByOne(t *testing.T) {
	api := newFakeBackend()
	api.regs[20] = &model.EventRegistrations{
		EventID:         20,
		EventTitle:      "Live event",
		Capacity:        10,
		RegisteredCount: 2,
		Registrations: []model.EventRegistration{
			{ID: 1, EventID: 20, UserID: 1, UserName: "A"},
			{ID: 2, EventID: 20, UserID: 2, UserName: "B"},
		},
	}
	pub := &recordingPublisher{}
	svc := newTestService(t, api, pub, Options{MockFallback: true})
	ctx := context.Background()

	before := loadRegistrations(t, svc, 20)

	after, err := svc.RemoveRegistration(ctx, 20, 1)
	require.NoError(t, err)
	assert.Equal(t, before.RegisteredCount-1, after.RegisteredCount)
	assert.Len(t, after.Registrations, len(before.Registrations)-1)
	assert.Equal(t, -1, after.Find(1))
	assert.Equal(t, 1, pub.count())

	cached, ok := cachedRegistrations(t, svc, 20)
	require.True(t, ok)
	assert.Equal(t, after, cached)
}

func TestRemoveRegistration_MissingIsWriteFailureWithoutCall(t *testing.T) {
	api := newFakeBackend()
	api.adminErr = errNetwork
	pub := &recordingPublisher{}
	svc := newTestService(t, api, pub, Options{MockFallback: true})
	ctx := context.Background()

	before := loadRegistrations(t, svc, 1)

	_, err := svc.RemoveRegistration(ctx, 1, 999)
	require.Error(t, err)
	assert.True(t, IsWriteFailure(err))
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
	assert.Equal(t, 0, api.count("RemoveRegistration"))
	assert.Equal(t, 0, pub.count())

	cached, ok := cachedRegistrations(t, svc, 1)
	require.True(t, ok)
	assert.Equal(t, before.RegisteredCount, cached.RegisteredCount)
}

func TestRemoveRegistration_NotLoaded(t *testing.T) {
	api := newFakeBackend()
	svc := newTestService(t, api, nil, Options{})

	_, err := svc.RemoveRegistration(context.Background(), 5, 1)
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
	assert.Equal(t, 0, api.count("RemoveRegistration"))
}

func TestRemoveRegistration_BackendFailureKeepsList(t *testing.T) {
	api := newFakeBackend()
	api.adminErr = errServer
	svc := newTestService(t, api, nil, Options{MockFallback: true})
	ctx := context.Background()

	before := loadRegistrations(t, svc, 1)
	api.writeErr = errNetwork

	_, err := svc.RemoveRegistration(ctx, 1, 2)
	require.Error(t, err)
	assert.True(t, IsWriteFailure(err))

	cached, ok := cachedRegistrations(t, svc, 1)
	require.True(t, ok)
	assert.Equal(t, before, cached)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()

	api := newFakeBackend()
	api.users = []model.AdminUser{{UserProfile: model.UserProfile{ID: 1}}, {UserProfile: model.UserProfile{ID: 2}}, {UserProfile: model.UserProfile{ID: 3}}}
	svc := newTestService(t, api, nil, Options{MockFallback: true})
	list, err := svc.Users(ctx)
	require.NoError(t, err)
	assert.False(t, list.Fallback)
	assert.Len(t, list.Items, 3)

	api.adminErr = errNetwork
	list, err = svc.Users(ctx)
	require.NoError(t, err)
	assert.True(t, list.Fallback)
	assert.Len(t, list.Items, 2)

	api.adminErr = &apiclient.Error{Kind: apiclient.KindForbidden, Status: 403}
	_, err = svc.Users(ctx)
	assert.True(t, apiclient.IsKind(err, apiclient.KindForbidden))
}

func TestAdminEvents_Fallback(t *testing.T) {
	api := newFakeBackend()
	api.adminErr = errServer
	svc := newTestService(t, api, nil, Options{MockFallback: true})

	list, err := svc.AdminEvents(context.Background())
	require.NoError(t, err)
	assert.True(t, list.Fallback)
	require.Len(t, list.Items, 2)
	assert.True(t, list.Items[1].IsFull)
}

func TestSetCanCreateContent_FailureNeverSucceeds(t *testing.T) {
	api := newFakeBackend()
	api.writeErr = errNetwork
	svc := newTestService(t, api, nil, Options{MockFallback: true})

	err := svc.SetCanCreateContent(context.Background(), 1, true)
	require.Error(t, err)
	assert.True(t, IsWriteFailure(err))
}

func TestAvatarWrites(t *testing.T) {
	api := newFakeBackend()
	svc := newTestService(t, api, nil, Options{})
	ctx := context.Background()

	stored, err := svc.UpdateAvatar(ctx, 1, "https://example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a.png", stored)
	require.NoError(t, svc.DeleteAvatar(ctx, 1))

	api.writeErr = errServer
	_, err = svc.UpdateAvatar(ctx, 1, "https://example.com/b.png")
	assert.True(t, IsWriteFailure(err))
}
