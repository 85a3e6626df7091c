// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package fetch downloads canonical ignore-files from extension source
// hosts. Fetches are best-effort: callers log failures and move on.
package fetch

import (
	"context"
	"fmt"

	"github.com/cavaliergopher/grab/v3"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

var _ Client = &client{}

type Client interface {
	Fetch(ctx context.Context, url string, path string) error
}

func NewClient() Client {
	return &client{
		grab: grab.NewClient(),
	}
}

type client struct {
	grab *grab.Client
}

func (c *client) Fetch(ctx context.Context, url string, path string) error {
	operation := func() error {
		req, err := grab.NewRequest(path, url)
		if err != nil {
			return backoff.Permanent(err)
		}
		req = req.WithContext(ctx)

		resp := c.grab.Do(req)
		if err := resp.Err(); err != nil {
			return err
		}

		if code := resp.HTTPResponse.StatusCode; code >= 400 {
			return backoff.Permanent(fmt.Errorf("fetching %s: HTTP %d", url, code))
		}

		logrus.WithField("url", url).Debug("fetched")
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	return backoff.Retry(operation, policy)
}
