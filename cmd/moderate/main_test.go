package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/steemit/citygroups/internal/db"
	"github.com/steemit/citygroups/internal/listing"
	"github.com/steemit/citygroups/internal/models"
)

func newService(t *testing.T) (*listing.Service, *models.CommunityListing) {
	t.Helper()
	svc := listing.NewService(db.NewMemoryStore(), nil, time.Minute, zap.NewNop())
	l, err := svc.Submit(context.Background(), listing.SubmitInput{
		Name:     "Bay Oaks",
		Platform: "reddit",
		URL:      "https://reddit.com/r/bayoaks",
		City:     "Austin",
		State:    "TX",
	})
	require.NoError(t, err)
	return svc, l
}

func TestRun_Usage(t *testing.T) {
	svc, _ := newService(t)

	for _, args := range [][]string{nil, {"delete"}, {"approve"}, {"pending", "extra"}} {
		err := run(context.Background(), svc, args, false, &bytes.Buffer{})
		assert.True(t, errors.Is(err, errUsage), "args %v: %v", args, err)
	}
}

func TestRun_PendingTable(t *testing.T) {
	svc, l := newService(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), svc, []string{"pending"}, false, &out))
	assert.Contains(t, out.String(), l.ID)
	assert.Contains(t, out.String(), "Bay Oaks")
	assert.Contains(t, out.String(), "reddit")
}

func TestRun_ApproveThenReject(t *testing.T) {
	svc, l := newService(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), svc, []string{"approve", l.ID}, true, &out))

	var decided models.CommunityListing
	require.NoError(t, json.Unmarshal(out.Bytes(), &decided))
	assert.Equal(t, models.StatusApproved, decided.Status)

	err := run(context.Background(), svc, []string{"reject", l.ID}, false, &bytes.Buffer{})
	var precondition *listing.PreconditionFailedError
	require.ErrorAs(t, err, &precondition)
	assert.Equal(t, models.StatusApproved, precondition.Current)

	out.Reset()
	require.NoError(t, run(context.Background(), svc, []string{"pending"}, false, &out))
	assert.Equal(t, "No pending listings\n", out.String())
}
