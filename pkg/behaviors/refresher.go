package behaviors

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-surveyform/pkg/dom"
	"github.com/goliatone/go-surveyform/pkg/model"
)

// AnswerFetcher loads the answer options of a question. catalog.Client
// satisfies it.
type AnswerFetcher interface {
	Answers(ctx context.Context, questionID string) ([]model.Answer, error)
}

// Refresher repopulates the required-answers multi-select whenever the
// depends-on select changes. Each change supersedes the previous one: the
// older request is cancelled and, should its response still arrive, it is
// discarded because its token is no longer current.
type Refresher struct {
	doc     *dom.Document
	fetcher AnswerFetcher
	cfg     config
	source  *dom.Select
	target  *dom.Select

	mu     sync.Mutex
	token  uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// AttachRefresher wires the refresher into doc. Both selects must exist.
func AttachRefresher(doc *dom.Document, fetcher AnswerFetcher, options ...Option) (*Refresher, error) {
	if doc == nil {
		return nil, errors.New("behaviors: document is nil")
	}
	if fetcher == nil {
		return nil, errors.New("behaviors: answer fetcher is nil")
	}

	cfg := newConfig(options...)
	r := &Refresher{doc: doc, fetcher: fetcher, cfg: cfg}

	doc.Update(func(d *dom.Document) {
		r.source = d.SelectByID(cfg.sourceID)
		r.target = d.SelectByID(cfg.targetID)
	})
	if r.source == nil {
		return nil, fmt.Errorf("behaviors: select %q not found", cfg.sourceID)
	}
	if r.target == nil {
		return nil, fmt.Errorf("behaviors: select %q not found", cfg.targetID)
	}

	doc.On(r.source, dom.EventChange, r.onChange)
	return r, nil
}

// Wait blocks until every started request has finished and been applied or
// discarded.
func (r *Refresher) Wait() {
	r.wg.Wait()
}

// Close cancels any request in flight and waits for it to settle.
func (r *Refresher) Close() {
	r.mu.Lock()
	r.token++
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Refresher) onChange(_ *dom.Document, ev *dom.Event) {
	questionID := strings.TrimSpace(ev.Select.Value)

	r.mu.Lock()
	r.token++
	token := r.token
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if questionID == "" {
		r.mu.Unlock()
		r.target.Options = nil
		return
	}
	ctx, cancel := context.WithCancel(r.cfg.baseContext)
	r.cancel = cancel
	r.mu.Unlock()

	r.wg.Add(1)
	go r.fetch(ctx, cancel, token, questionID)
}

func (r *Refresher) fetch(ctx context.Context, cancel context.CancelFunc, token uint64, questionID string) {
	defer r.wg.Done()
	defer cancel()

	answers, err := r.fetcher.Answers(ctx, questionID)
	if err != nil {
		if ctx.Err() != nil && !r.current(token) {
			return
		}
		r.cfg.logger.Printf("behaviors: load answers for question %s: %v", questionID, err)
		return
	}

	r.doc.Update(func(*dom.Document) {
		if !r.current(token) {
			return
		}
		options := make([]dom.Option, 0, len(answers))
		for _, answer := range answers {
			options = append(options, dom.Option{
				Value: strconv.Itoa(answer.ID),
				Label: answer.Text,
			})
		}
		r.target.Options = options
		r.target.Value = ""
	})
}

func (r *Refresher) current(token uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return token == r.token
}
