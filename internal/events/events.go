// Package events carries change notifications emitted after store mutations.
package events

import (
	"context"
	"errors"
	"time"
)

// Op is the kind of change.
type Op string

const (
	OpCreated  Op = "created"
	OpUpdated  Op = "updated"
	OpDeleted  Op = "deleted"
	OpReloaded Op = "reloaded"
	OpLogin    Op = "login"
	OpLogout   Op = "logout"
)

// Change tells subscribers which collection to re-read.
type Change struct {
	Collection string    `json:"collection"`
	Op         Op        `json:"op"`
	ID         string    `json:"id,omitempty"`
	At         time.Time `json:"at"`
}

// Publisher delivers a change to some sink.
type Publisher interface {
	Publish(ctx context.Context, c Change) error
}

// Nop drops every change.
type Nop struct{}

func (Nop) Publish(context.Context, Change) error { return nil }

// Fanout publishes to every member and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, c Change) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
