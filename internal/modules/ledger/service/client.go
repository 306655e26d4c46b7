package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"vault_console/internal/modules/config"
	"vault_console/internal/notify"
)

// Используем только документированные геттеры/сеттеры vault-контракта.
// Его учёт мы не переизобретаем, только читаем и дёргаем management.
const vaultABIJSON = `[
	{"type":"function","name":"ps","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
	{"type":"function","name":"totalAssets","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
	{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
	{"type":"function","name":"performanceFeeP","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
	{"type":"function","name":"lockMinSeconds","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
	{"type":"function","name":"isPrivate","stateMutability":"view","inputs":[],"outputs":[{"type":"bool"}]},
	{"type":"function","name":"admin","stateMutability":"view","inputs":[],"outputs":[{"type":"address"}]},
	{"type":"function","name":"manager","stateMutability":"view","inputs":[],"outputs":[{"type":"address"}]},
	{"type":"function","name":"guardian","stateMutability":"view","inputs":[],"outputs":[{"type":"address"}]},
	{"type":"function","name":"adapterAllowed","stateMutability":"view","inputs":[{"type":"address"}],"outputs":[{"type":"bool"}]},
	{"type":"function","name":"setWhitelist","stateMutability":"nonpayable","inputs":[{"type":"address"},{"type":"bool"}],"outputs":[]},
	{"type":"function","name":"setLockMinDays","stateMutability":"nonpayable","inputs":[{"type":"uint256"}],"outputs":[]},
	{"type":"function","name":"setPerformanceFee","stateMutability":"nonpayable","inputs":[{"type":"uint256"}],"outputs":[]},
	{"type":"function","name":"pause","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"unpause","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"setAdapter","stateMutability":"nonpayable","inputs":[{"type":"address"},{"type":"bool"}],"outputs":[]},
	{"type":"function","name":"setManager","stateMutability":"nonpayable","inputs":[{"type":"address"}],"outputs":[]},
	{"type":"function","name":"setGuardian","stateMutability":"nonpayable","inputs":[{"type":"address"}],"outputs":[]}
]`

// contractCaller — то, что ридеру нужно от bind.BoundContract.
// Интерфейс ради тестов с фейковым контрактом.
type contractCaller interface {
	Call(opts *bind.CallOpts, results *[]interface{}, method string, params ...interface{}) error
}

type Client struct {
	eth      *ethclient.Client
	contract contractCaller
	bound    *bind.BoundContract
	addr     common.Address

	admin          *bind.TransactOpts // nil — management недоступен
	confirmTimeout time.Duration
	n              notify.Notifier
}

func NewClient(ctx context.Context, cfg *config.Config, n notify.Notifier) (*Client, error) {
	if cfg.Ledger.RPCURL == "" {
		return nil, fmt.Errorf("ledger rpc_url is required")
	}

	eth, err := ethclient.DialContext(ctx, cfg.Ledger.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("ledger dial %s: %w", cfg.Ledger.RPCURL, err)
	}

	parsed, err := abi.JSON(strings.NewReader(vaultABIJSON))
	if err != nil {
		return nil, fmt.Errorf("ledger parse abi: %w", err)
	}

	addr := common.HexToAddress(cfg.Ledger.VaultAddress)
	bound := bind.NewBoundContract(addr, parsed, eth, eth, eth)

	c := &Client{
		eth:            eth,
		contract:       bound,
		bound:          bound,
		addr:           addr,
		confirmTimeout: cfg.Ledger.ConfirmTimeout,
		n:              n,
	}

	if key := strings.TrimPrefix(cfg.Ledger.AdminPrivateKey, "0x"); key != "" {
		pk, err := crypto.HexToECDSA(key)
		if err != nil {
			return nil, fmt.Errorf("ledger admin key: %w", err)
		}
		chainID, err := eth.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("ledger chain id: %w", err)
		}
		opts, err := bind.NewKeyedTransactorWithChainID(pk, chainID)
		if err != nil {
			return nil, fmt.Errorf("ledger transactor: %w", err)
		}
		c.admin = opts
	}

	return c, nil
}

func (c *Client) Close() {
	if c.eth != nil {
		c.eth.Close()
	}
}
