// Package datasync pages platform data into a caller-supplied store.
//
// A [Syncer] walks the meeting list of a user or the enterprise user
// directory and hands every item to a [Sink]. The sink is where host
// applications persist the data; this package never stores anything itself.
//
//	s, err := datasync.New(params)
//	res, err := s.Users(ctx, datasync.SinkFunc(func(ctx context.Context, r datasync.Record) error {
//	    return db.Upsert(ctx, r.ID, r.Data)
//	}), 20)
//
// A failing Store call is counted and recorded in the [Result] but does not
// stop the run. A failing API call stops the run and is returned together
// with the partial result.
package datasync

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meetingkit/pkg/clients"
	"github.com/matzehuels/meetingkit/pkg/clients/meeting"
	"github.com/matzehuels/meetingkit/pkg/clients/user"
	"github.com/matzehuels/meetingkit/pkg/errors"
)

// maxPages bounds a single run against a misbehaving pagination cursor.
const maxPages = 1000

// Record is one item handed to a sink.
type Record struct {
	Kind clients.Kind // KindMeeting or KindUser
	ID   string
	Data any // *meeting.Meeting or *user.User
}

// Sink stores synced records.
type Sink interface {
	Store(ctx context.Context, r Record) error
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(ctx context.Context, r Record) error

// Store calls f.
func (f SinkFunc) Store(ctx context.Context, r Record) error { return f(ctx, r) }

// Result summarizes one run.
type Result struct {
	Fetched int
	Stored  int
	Failed  int
	Errors  []error
}

type meetingLister interface {
	List(ctx context.Context, userID string, opts meeting.ListOptions) (*meeting.List, error)
}

type userLister interface {
	List(ctx context.Context, page, pageSize int) (*user.List, error)
}

// Syncer copies meetings and users into sinks.
type Syncer struct {
	meetings meetingLister
	users    userLister
	logger   *log.Logger
}

// New creates a syncer whose listers are built from the same params.
// It requires credentials.
func New(p clients.Params) (*Syncer, error) {
	if err := clients.RequireCredentials(p.Config); err != nil {
		return nil, clients.ConstructionError(clients.KindSync, err)
	}
	m, err := meeting.New(p)
	if err != nil {
		return nil, clients.ConstructionError(clients.KindSync, err)
	}
	u, err := user.New(p)
	if err != nil {
		return nil, clients.ConstructionError(clients.KindSync, err)
	}
	logger := p.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Syncer{meetings: m, users: u, logger: logger}, nil
}

// Kind implements clients.Handle.
func (s *Syncer) Kind() clients.Kind { return clients.KindSync }

// Meetings pages through userID's meetings and stores each one.
func (s *Syncer) Meetings(ctx context.Context, userID string, sink Sink) (*Result, error) {
	if sink == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "sink is required")
	}
	res := &Result{}
	pos := 0
	for page := 0; page < maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		list, err := s.meetings.List(ctx, userID, meeting.ListOptions{Pos: pos, ShowAll: true})
		if err != nil {
			return res, err
		}
		for i := range list.Meetings {
			m := &list.Meetings[i]
			s.store(ctx, sink, res, Record{Kind: clients.KindMeeting, ID: m.MeetingID, Data: m})
		}
		if !list.HasNext() || list.NextPos <= pos {
			break
		}
		pos = list.NextPos
	}
	s.logger.Debug("synced meetings", "userid", userID, "fetched", res.Fetched, "stored", res.Stored, "failed", res.Failed)
	return res, nil
}

// Users pages through the enterprise user directory and stores each user.
func (s *Syncer) Users(ctx context.Context, sink Sink, pageSize int) (*Result, error) {
	if sink == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "sink is required")
	}
	res := &Result{}
	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		list, err := s.users.List(ctx, page, pageSize)
		if err != nil {
			return res, err
		}
		for i := range list.Users {
			u := &list.Users[i]
			s.store(ctx, sink, res, Record{Kind: clients.KindUser, ID: u.UserID, Data: u})
		}
		if !list.HasNext() || len(list.Users) == 0 {
			break
		}
	}
	s.logger.Debug("synced users", "fetched", res.Fetched, "stored", res.Stored, "failed", res.Failed)
	return res, nil
}

func (s *Syncer) store(ctx context.Context, sink Sink, res *Result, r Record) {
	res.Fetched++
	if err := sink.Store(ctx, r); err != nil {
		res.Failed++
		res.Errors = append(res.Errors, errors.Wrap(errors.ErrCodeInternal, err, "store %s %s", r.Kind, r.ID))
		s.logger.Warn("sync store failed", "kind", r.Kind, "id", r.ID, "err", err)
		return
	}
	res.Stored++
}
