package service

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"vault_console/internal/models"
	"vault_console/pkg/logger"
)

const secondsPerDay = 86400

// Snapshot читает все read-only параметры vault разом, мимо бэкенда.
// Вызовы уходят параллельно; упавшее поле остаётся nil ("неизвестно")
// и не блокирует остальные — UI подставит данные бэкенда.
func (c *Client) Snapshot(ctx context.Context) models.VaultOnchain {
	var (
		out models.VaultOnchain
		wg  sync.WaitGroup
	)

	wg.Add(6)
	go func() {
		defer wg.Done()
		if v, err := c.readUint(ctx, "ps"); err == nil {
			out.UnitNav = models.F64Ptr(weiToFloat(v))
		} else {
			logger.Error("ledger read ps: %v", err)
		}
	}()
	go func() {
		defer wg.Done()
		if v, err := c.readUint(ctx, "totalAssets"); err == nil {
			out.TotalAssets = models.F64Ptr(weiToFloat(v))
		} else {
			logger.Error("ledger read totalAssets: %v", err)
		}
	}()
	go func() {
		defer wg.Done()
		if v, err := c.readUint(ctx, "totalSupply"); err == nil {
			out.TotalSupply = models.F64Ptr(weiToFloat(v))
		} else {
			logger.Error("ledger read totalSupply: %v", err)
		}
	}()
	go func() {
		defer wg.Done()
		if v, err := c.readUint(ctx, "performanceFeeP"); err == nil {
			out.PerfFeeBps = models.I64Ptr(v.Int64())
		} else {
			logger.Error("ledger read performanceFeeP: %v", err)
		}
	}()
	go func() {
		defer wg.Done()
		if v, err := c.readUint(ctx, "lockMinSeconds"); err == nil {
			out.LockDays = models.I64Ptr(v.Int64() / secondsPerDay)
		} else {
			logger.Error("ledger read lockMinSeconds: %v", err)
		}
	}()
	go func() {
		defer wg.Done()
		if v, err := c.readBool(ctx, "isPrivate"); err == nil {
			out.IsPrivate = models.BoolPtr(v)
		} else {
			logger.Error("ledger read isPrivate: %v", err)
		}
	}()

	// роли читаем той же пачкой
	wg.Add(3)
	for _, role := range []struct {
		method string
		dst    **string
	}{
		{"admin", &out.Admin},
		{"manager", &out.Manager},
		{"guardian", &out.Guardian},
	} {
		role := role
		go func() {
			defer wg.Done()
			if v, err := c.readAddress(ctx, role.method); err == nil {
				*role.dst = models.StrPtr(v.Hex())
			} else {
				logger.Error("ledger read %s: %v", role.method, err)
			}
		}()
	}

	wg.Wait()
	return out
}

// AdapterAllowed — точечная проверка допуска адаптера.
func (c *Client) AdapterAllowed(ctx context.Context, adapter string) (bool, error) {
	var results []interface{}
	err := c.contract.Call(&bind.CallOpts{Context: ctx}, &results, "adapterAllowed", common.HexToAddress(adapter))
	if err != nil {
		return false, err
	}
	return results[0].(bool), nil
}

func (c *Client) readUint(ctx context.Context, method string) (*big.Int, error) {
	var results []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &results, method); err != nil {
		return nil, err
	}
	return results[0].(*big.Int), nil
}

func (c *Client) readBool(ctx context.Context, method string) (bool, error) {
	var results []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &results, method); err != nil {
		return false, err
	}
	return results[0].(bool), nil
}

func (c *Client) readAddress(ctx context.Context, method string) (common.Address, error) {
	var results []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &results, method); err != nil {
		return common.Address{}, err
	}
	return results[0].(common.Address), nil
}

func weiToFloat(v *big.Int) float64 {
	f, _ := new(big.Float).Quo(
		new(big.Float).SetInt(v),
		big.NewFloat(1e18),
	).Float64()
	return f
}
