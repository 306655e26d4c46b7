package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	ErrNoAdminKey   = errors.New("ledger: admin key not configured")
	ErrNotConfirmed = errors.New("ledger: operation not confirmed")
)

// Management-операции. Схема fire-and-confirm: подтверждение оператором,
// отправка, ожидание майнинга, наружу уходит хэш транзакции.
// До подтверждения сети исход не угадываем.

func (c *Client) SetWhitelist(ctx context.Context, addr string, allowed bool) (string, error) {
	prompt := fmt.Sprintf("setWhitelist(%s, %v) на vault %s?", addr, allowed, c.addr.Hex())
	return c.transact(ctx, prompt, "setWhitelist", common.HexToAddress(addr), allowed)
}

func (c *Client) SetLockMinDays(ctx context.Context, days uint64) (string, error) {
	prompt := fmt.Sprintf("setLockMinDays(%d) на vault %s?", days, c.addr.Hex())
	return c.transact(ctx, prompt, "setLockMinDays", new(big.Int).SetUint64(days))
}

func (c *Client) SetPerformanceFee(ctx context.Context, bps uint64) (string, error) {
	prompt := fmt.Sprintf("setPerformanceFee(%d bps) на vault %s?", bps, c.addr.Hex())
	return c.transact(ctx, prompt, "setPerformanceFee", new(big.Int).SetUint64(bps))
}

func (c *Client) Pause(ctx context.Context) (string, error) {
	return c.transact(ctx, fmt.Sprintf("pause() на vault %s?", c.addr.Hex()), "pause")
}

func (c *Client) Unpause(ctx context.Context) (string, error) {
	return c.transact(ctx, fmt.Sprintf("unpause() на vault %s?", c.addr.Hex()), "unpause")
}

func (c *Client) SetAdapter(ctx context.Context, adapter string, allowed bool) (string, error) {
	prompt := fmt.Sprintf("setAdapter(%s, %v) на vault %s?", adapter, allowed, c.addr.Hex())
	return c.transact(ctx, prompt, "setAdapter", common.HexToAddress(adapter), allowed)
}

func (c *Client) SetManager(ctx context.Context, manager string) (string, error) {
	prompt := fmt.Sprintf("setManager(%s) на vault %s?", manager, c.addr.Hex())
	return c.transact(ctx, prompt, "setManager", common.HexToAddress(manager))
}

func (c *Client) SetGuardian(ctx context.Context, guardian string) (string, error) {
	prompt := fmt.Sprintf("setGuardian(%s) на vault %s?", guardian, c.addr.Hex())
	return c.transact(ctx, prompt, "setGuardian", common.HexToAddress(guardian))
}

func (c *Client) transact(ctx context.Context, prompt, method string, params ...interface{}) (string, error) {
	if c.admin == nil {
		return "", ErrNoAdminKey
	}
	if c.n != nil && !c.n.Confirm(ctx, "🔐 "+prompt, c.confirmTimeout) {
		return "", ErrNotConfirmed
	}

	opts := *c.admin
	opts.Context = ctx

	tx, err := c.bound.Transact(&opts, method, params...)
	if err != nil {
		return "", fmt.Errorf("ledger %s: %w", method, err)
	}

	receipt, err := bind.WaitMined(ctx, c.eth, tx)
	if err != nil {
		return "", fmt.Errorf("ledger %s wait mined: %w", method, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", fmt.Errorf("ledger %s reverted: tx=%s", method, tx.Hash().Hex())
	}

	if c.n != nil {
		c.n.Sendf("✅ %s подтверждён: %s", method, tx.Hash().Hex())
	}
	return tx.Hash().Hex(), nil
}
