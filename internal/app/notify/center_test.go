package notify

import (
	"errors"
	"testing"
	"time"

	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBoundedDropsOldest(t *testing.T) {
	c := NewCenter(3, nil, zap.NewNop())
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, c.Add(entity.NotificationInfo, "t", "m", 0))
	}
	list := c.List()
	require.Len(t, list, 3)
	assert.Equal(t, ids[2], list[0].ID)
	assert.Equal(t, ids[4], list[2].ID)
}

func TestEntriesExpire(t *testing.T) {
	c := NewCenter(0, nil, zap.NewNop())
	c.Add(entity.NotificationSuccess, "done", "", 10*time.Millisecond)
	keep := c.Add(entity.NotificationInfo, "sticky", "", 0)

	assert.Eventually(t, func() bool { return len(c.List()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, keep, c.List()[0].ID)
}

func TestNotifyClassifies(t *testing.T) {
	c := NewCenter(0, nil, zap.NewNop())
	c.Notify(errors.New("user rejected transaction"))
	c.Notify(nil)

	list := c.List()
	require.Len(t, list, 1)
	assert.Equal(t, entity.NotificationError, list[0].Kind)
	assert.Equal(t, "Transaction Rejected", list[0].Title)
	assert.Equal(t, apperr.Duration(apperr.KindUserRejected), list[0].Duration)
}

func TestRemoveAndClear(t *testing.T) {
	c := NewCenter(0, nil, zap.NewNop())
	id := c.AddTx(entity.NotificationSuccess, "Deposit confirmed", "", "0xabc", time.Minute)
	c.Add(entity.NotificationInfo, "x", "", time.Minute)

	assert.Equal(t, "0xabc", c.List()[0].TxHash)
	assert.True(t, c.Remove(id))
	assert.False(t, c.Remove(id))
	assert.Len(t, c.List(), 1)

	c.Clear()
	assert.Empty(t, c.List())
}
