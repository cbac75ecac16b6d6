package syncbus

import (
	"sync"
	"testing"
	"time"

	"github.com/olegiv/connect-web/internal/model"
)

func TestPublishReachesEverySubscriber(t *testing.T) {
	b := New()
	s1 := b.Subscribe()
	s2 := b.Subscribe()
	defer s1.Unsubscribe()
	defer s2.Unsubscribe()

	b.Publish(ContentChanged{Kind: model.KindNews, ID: 1, Op: OpCreate})

	for i, s := range []*Subscription{s1, s2} {
		select {
		case evt := <-s.C:
			if evt.Kind != model.KindNews || evt.ID != 1 || evt.Op != OpCreate {
				t.Errorf("subscriber %d got %+v", i, evt)
			}
			if evt.At.IsZero() {
				t.Errorf("subscriber %d got zero timestamp", i)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d got nothing", i)
		}
	}
}

func TestBurstCoalescesToLatest(t *testing.T) {
	b := New()
	s := b.Subscribe()
	defer s.Unsubscribe()

	for i := int64(1); i <= 5; i++ {
		b.Publish(ContentChanged{Kind: model.KindEvent, ID: i, Op: OpUpdate})
	}

	evt := <-s.C
	if evt.ID != 5 {
		t.Errorf("coalesced event ID = %d, want 5", evt.ID)
	}
	select {
	case extra := <-s.C:
		t.Errorf("unexpected second notification %+v", extra)
	default:
	}
}

func TestPublishWhilePendingIsNotLost(t *testing.T) {
	b := New()
	s := b.Subscribe()
	defer s.Unsubscribe()

	b.Publish(ContentChanged{Kind: model.KindNews, ID: 1})
	<-s.C // subscriber starts refetching
	b.Publish(ContentChanged{Kind: model.KindNews, ID: 2})

	select {
	case evt := <-s.C:
		if evt.ID != 2 {
			t.Errorf("got ID %d, want 2", evt.ID)
		}
	default:
		t.Fatal("publish during refetch was lost")
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	s := b.Subscribe()
	if n := b.Subscribers(); n != 1 {
		t.Fatalf("Subscribers() = %d, want 1", n)
	}

	s.Unsubscribe()
	s.Unsubscribe()

	if n := b.Subscribers(); n != 0 {
		t.Errorf("Subscribers() = %d after unsubscribe, want 0", n)
	}
	if _, ok := <-s.C; ok {
		t.Error("C should be closed after Unsubscribe")
	}

	// Publishing to a bus without subscribers must not panic or block.
	b.Publish(ContentChanged{Kind: model.KindNews, ID: 1})
}

func TestConcurrentPublishAndUnsubscribe(t *testing.T) {
	b := New()
	subs := make([]*Subscription, 20)
	for i := range subs {
		subs[i] = b.Subscribe()
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				b.Publish(ContentChanged{Kind: model.KindNews, ID: id})
			}
		}(int64(i))
	}
	for _, s := range subs {
		wg.Add(1)
		go func(s *Subscription) {
			defer wg.Done()
			s.Unsubscribe()
		}(s)
	}
	wg.Wait()

	if n := b.Subscribers(); n != 0 {
		t.Errorf("Subscribers() = %d, want 0", n)
	}
}

func TestCloseEndsSubscriptions(t *testing.T) {
	b := New()
	s := b.Subscribe()
	b.Close()

	if _, ok := <-s.C; ok {
		t.Fatal("C should be closed after Close")
	}
	s.Unsubscribe()

	late := b.Subscribe()
	if _, ok := <-late.C; ok {
		t.Fatal("subscribing after Close should yield a closed subscription")
	}
	if n := b.Subscribers(); n != 0 {
		t.Errorf("Subscribers() = %d, want 0", n)
	}
	b.Publish(ContentChanged{Kind: model.KindNews, ID: 1})
}
