package list_events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-admin/internal/app/catalog/catalogtest"
	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/app/catalog/repo"
)

func TestListEvents(t *testing.T) {
	ctx := context.Background()
	env := catalogtest.NewEnv(t)
	recorder := env.Events()
	for id := int64(1); id <= 3; id++ {
		recorder.Record(ctx, &domain.AttributeDeletedEvent{Kind: domain.KindColor, AttributeID: id, DeletedAt: env.Clock.Now()})
		env.Clock.Advance(time.Second)
	}
	recorder.Record(ctx, &domain.AttributeSavedEvent{Kind: domain.KindTag, AttributeID: 1, Created: true})
	query := NewQuery(repo.NewEventsReadModel(env.Store))

	events, err := query.Execute(ctx, &Request{})
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, "attribute.created", events[0].EventType)

	events, err = query.Execute(ctx, &Request{EventType: "attribute.deleted", Limit: 2})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "color:3", events[0].AggregateID)
	assert.Equal(t, "color:2", events[1].AggregateID)

	events, err = query.Execute(ctx, &Request{AggregateID: "color:1"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Payload, `"AttributeID":1`)
}
