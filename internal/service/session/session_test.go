package session_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/whatisthe411/the411/backend/internal/model/content"
	"github.com/whatisthe411/the411/backend/internal/service/fetch"
	"github.com/whatisthe411/the411/backend/internal/service/session"
)

type stubLoader struct {
	calls   atomic.Int32
	block   bool
	stopped atomic.Bool
}

func (l *stubLoader) LoadAll(ctx context.Context, sink fetch.Sink) {
	l.calls.Add(1)
	if l.block {
		<-ctx.Done()
		l.stopped.Store(true)
		for _, c := range content.Collections() {
			sink.MarkFailed(c, ctx.Err())
		}
		return
	}
	rec, _ := content.NewRecord("1", map[string]any{"title": "hello"})
	sink.Replace(content.Blogs, []content.Record{rec})
}

func TestSessionStartLoadsStore(t *testing.T) {
	loader := &stubLoader{}
	sess := session.New(content.NewStore(), loader)
	gt.True(t, sess.ID() != "")
	gt.False(t, sess.Ready())

	sess.Start(context.Background())
	sess.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	gt.NoError(t, sess.Wait(ctx))
	gt.True(t, sess.Ready())
	gt.Equal(t, loader.calls.Load(), int32(1))
	gt.A(t, sess.Store().View(content.Blogs)).Length(1)

	sess.Close()
}

func TestSessionCloseCancelsFetches(t *testing.T) {
	loader := &stubLoader{block: true}
	sess := session.New(content.NewStore(), loader)
	sess.Start(context.Background())

	waitCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	gt.Error(t, sess.Wait(waitCtx))

	sess.Close()
	gt.True(t, loader.stopped.Load())
	gt.True(t, sess.Ready())

	status, _ := sess.Store().Status(content.Videos)
	gt.Equal(t, status.State, content.StateFailed)
}

func TestSessionCloseWithoutStart(t *testing.T) {
	sess := session.New(content.NewStore(), &stubLoader{})
	sess.Close()
	gt.False(t, sess.Ready())
}
