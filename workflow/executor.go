// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package workflow

import "context"

type Workflow interface {
	Execute(ctx context.Context) error
}

type Executor interface {
	Execute(ctx context.Context, workflow Workflow) error
}

func NewExecutor() Executor {
	return executor{}
}

type executor struct{}

func (executor) Execute(ctx context.Context, workflow Workflow) error {
	return workflow.Execute(ctx)
}
