package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/timexnorm/pkg/types/timex"
)

func TestResultKey(t *testing.T) {
	a := ResultKey(timex.DomainGeneral, "20120608", "Next  Friday")
	b := ResultKey(timex.DomainGeneral, "20120608", "next friday")
	assert.Equal(t, a, b)
	assert.Contains(t, a, "result:general:20120608:")

	assert.NotEqual(t, a, ResultKey(timex.DomainClinical, "20120608", "next friday"))
	assert.NotEqual(t, a, ResultKey(timex.DomainGeneral, "20120609", "next friday"))
}

func TestResultCache_RoundTrip(t *testing.T) {
	client, mock := newMockClient(t)
	rc := NewResultCache(NewRedisCache(client, nil), 0)
	ctx := context.Background()

	res := timex.Result{SurfaceText: "next friday", Type: timex.TypeDate, Value: "2012-06-15", Rule: "weekday"}
	key := "test:" + ResultKey(timex.DomainGeneral, "20120608", "next friday")
	data, _ := json.Marshal(res)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, data, time.Minute).SetVal("OK")
	mock.ExpectGet(key).SetVal(string(data))

	_, ok, err := rc.Get(ctx, timex.DomainGeneral, "20120608", "next friday")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, rc.Put(ctx, timex.DomainGeneral, "20120608", "next friday", res))

	got, ok, err := rc.Get(ctx, timex.DomainGeneral, "20120608", "Next Friday")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Next Friday", got.SurfaceText)
	assert.Equal(t, "2012-06-15", got.Value)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultCache_Purge(t *testing.T) {
	client, mock := newMockClient(t)
	rc := NewResultCache(NewRedisCache(client, nil), time.Hour)

	mock.ExpectScan(0, "test:result:clinical:*", 100).SetVal([]string{"test:result:clinical:a"}, 0)
	mock.ExpectDel("test:result:clinical:a").SetVal(1)

	n, err := rc.Purge(context.Background(), timex.DomainClinical)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

//Personal.AI order the ending
