package service

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vault_console/pkg/logger"
)

func init() {
	logger.InfoLogger = zap.NewNop()
	logger.FatalLogger = zap.NewNop()
}

// fakeContract отвечает на view-вызовы из таблицы; методы из failing
// "ревертят".
type fakeContract struct {
	values  map[string]interface{}
	failing map[string]bool
}

func (f *fakeContract) Call(opts *bind.CallOpts, results *[]interface{}, method string, params ...interface{}) error {
	if f.failing[method] {
		return errors.New("execution reverted")
	}
	v, ok := f.values[method]
	if !ok {
		return errors.New("unknown method " + method)
	}
	*results = []interface{}{v}
	return nil
}

func eth(units int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(units), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func healthyContract() *fakeContract {
	return &fakeContract{
		values: map[string]interface{}{
			"ps":              eth(2),       // 2.0 за пай
			"totalAssets":     eth(1000000), // $1m
			"totalSupply":     eth(500000),
			"performanceFeeP": big.NewInt(2000), // 20%
			"lockMinSeconds":  big.NewInt(7 * 86400),
			"isPrivate":       true,
			"admin":           common.HexToAddress("0x0000000000000000000000000000000000000aa1"),
			"manager":         common.HexToAddress("0x0000000000000000000000000000000000000aa2"),
			"guardian":        common.HexToAddress("0x0000000000000000000000000000000000000aa3"),
			"adapterAllowed":  true,
		},
		failing: map[string]bool{},
	}
}

func TestSnapshotAllFields(t *testing.T) {
	c := &Client{contract: healthyContract()}
	snap := c.Snapshot(context.Background())

	require.NotNil(t, snap.UnitNav)
	assert.Equal(t, 2.0, *snap.UnitNav)
	require.NotNil(t, snap.TotalAssets)
	assert.Equal(t, 1000000.0, *snap.TotalAssets)
	require.NotNil(t, snap.TotalSupply)
	assert.Equal(t, 500000.0, *snap.TotalSupply)
	require.NotNil(t, snap.PerfFeeBps)
	assert.Equal(t, int64(2000), *snap.PerfFeeBps)
	require.NotNil(t, snap.LockDays)
	assert.Equal(t, int64(7), *snap.LockDays)
	require.NotNil(t, snap.IsPrivate)
	assert.True(t, *snap.IsPrivate)
	require.NotNil(t, snap.Manager)
	assert.Equal(t, common.HexToAddress("0x0000000000000000000000000000000000000aa2").Hex(), *snap.Manager)
}

func TestSnapshotLockDaysFloor(t *testing.T) {
	fc := healthyContract()
	fc.values["lockMinSeconds"] = big.NewInt(7*86400 + 86399) // неполный день отбрасывается
	c := &Client{contract: fc}

	snap := c.Snapshot(context.Background())
	require.NotNil(t, snap.LockDays)
	assert.Equal(t, int64(7), *snap.LockDays)
}

func TestSnapshotPartialFailure(t *testing.T) {
	fc := healthyContract()
	fc.failing["isPrivate"] = true
	c := &Client{contract: fc}

	snap := c.Snapshot(context.Background())

	// isPrivate неизвестен, но остальное прочитано
	assert.Nil(t, snap.IsPrivate)
	require.NotNil(t, snap.UnitNav)
	assert.Equal(t, 2.0, *snap.UnitNav)
	require.NotNil(t, snap.LockDays)
	require.NotNil(t, snap.Admin)
}

func TestSnapshotTotalFailure(t *testing.T) {
	fc := &fakeContract{values: map[string]interface{}{}, failing: map[string]bool{}}
	c := &Client{contract: fc}

	snap := c.Snapshot(context.Background())
	assert.Nil(t, snap.UnitNav)
	assert.Nil(t, snap.IsPrivate)
	assert.Nil(t, snap.Admin)
}

func TestAdapterAllowed(t *testing.T) {
	c := &Client{contract: healthyContract()}
	ok, err := c.AdapterAllowed(context.Background(), "0x0000000000000000000000000000000000000bb1")
	require.NoError(t, err)
	assert.True(t, ok)
}
