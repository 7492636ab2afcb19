package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
)

const defaultCallTimeout = 10 * time.Second

// ContractCaller is the slice of the RPC client the chain reader needs.
// *ethclient.Client satisfies it.
type ContractCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Client implements Reader against a deployed crowdfunding contract.
type Client struct {
	caller      ContractCaller
	abi         abi.ABI
	contract    common.Address
	callTimeout time.Duration
	logger      zerolog.Logger
}

// Options configures the chain client.
type Options struct {
	Caller          ContractCaller
	ContractAddress string
	CallTimeout     time.Duration
	Logger          zerolog.Logger
}

// NewClient builds a reader over an already-connected caller.
func NewClient(opts Options) (*Client, error) {
	if opts.Caller == nil {
		return nil, fmt.Errorf("chain: caller is required")
	}
	if !common.IsHexAddress(opts.ContractAddress) {
		return nil, fmt.Errorf("chain: invalid contract address %q", opts.ContractAddress)
	}
	parsed, err := abi.JSON(strings.NewReader(crowdfundingABI))
	if err != nil {
		return nil, fmt.Errorf("chain: parse abi: %w", err)
	}
	timeout := opts.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &Client{
		caller:      opts.Caller,
		abi:         parsed,
		contract:    common.HexToAddress(opts.ContractAddress),
		callTimeout: timeout,
		logger:      opts.Logger,
	}, nil
}

// Dial connects to the RPC endpoint and builds a client for the contract.
func Dial(ctx context.Context, rpcURL, contractAddress string, logger zerolog.Logger) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("chain: dial %s: %w", rpcURL, err)
	}
	return NewClient(Options{Caller: eth, ContractAddress: contractAddress, Logger: logger})
}

// Close releases the underlying RPC connection when the caller owns one.
func (c *Client) Close() {
	if closer, ok := c.caller.(interface{ Close() }); ok {
		closer.Close()
	}
}

func (c *Client) call(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("chain: pack %s: %w", method, err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	raw, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &c.contract, Data: data}, nil)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", method).Msg("contract call failed")
		return nil, fmt.Errorf("chain: call %s: %w", method, err)
	}
	out, err := c.abi.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("chain: unpack %s: %w", method, err)
	}
	return out, nil
}

// rawCampaign mirrors the getCampaign tuple layout for abi.ConvertType.
type rawCampaign struct {
	Id                *big.Int
	Creator           common.Address
	Title             string
	Description       string
	MetadataHash      string
	TargetAmount      *big.Int
	RaisedAmount      *big.Int
	Deadline          *big.Int
	Withdrawn         bool
	Active            bool
	CreatedAt         *big.Int
	ContributorsCount *big.Int
}

func (c *Client) Campaign(ctx context.Context, id uint64) (*Campaign, error) {
	out, err := c.call(ctx, "getCampaign", new(big.Int).SetUint64(id))
	if err != nil {
		return nil, err
	}
	raw := *abi.ConvertType(out[0], new(rawCampaign)).(*rawCampaign)
	return &Campaign{
		ID:                raw.Id,
		Creator:           raw.Creator,
		Title:             raw.Title,
		Description:       raw.Description,
		MetadataHash:      raw.MetadataHash,
		TargetAmount:      raw.TargetAmount,
		RaisedAmount:      raw.RaisedAmount,
		Deadline:          raw.Deadline,
		Withdrawn:         raw.Withdrawn,
		Active:            raw.Active,
		CreatedAt:         raw.CreatedAt,
		ContributorsCount: raw.ContributorsCount,
	}, nil
}

func (c *Client) Contribution(ctx context.Context, id uint64, account string) (*big.Int, error) {
	out, err := c.call(ctx, "getContribution", new(big.Int).SetUint64(id), common.HexToAddress(account))
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (c *Client) UserCampaignIDs(ctx context.Context, account string) ([]uint64, error) {
	return c.idList(ctx, "getUserCampaigns", common.HexToAddress(account))
}

func (c *Client) UserContributionIDs(ctx context.Context, account string) ([]uint64, error) {
	return c.idList(ctx, "getUserContributions", common.HexToAddress(account))
}

func (c *Client) ActiveCampaignIDs(ctx context.Context, offset, limit uint64) ([]uint64, error) {
	return c.idList(ctx, "getActiveCampaigns", new(big.Int).SetUint64(offset), new(big.Int).SetUint64(limit))
}

func (c *Client) idList(ctx context.Context, method string, args ...any) ([]uint64, error) {
	out, err := c.call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	raw := *abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int)
	ids := make([]uint64, 0, len(raw))
	for _, v := range raw {
		if v == nil || !v.IsUint64() {
			continue
		}
		ids = append(ids, v.Uint64())
	}
	return ids, nil
}

// rawContribution mirrors the getCampaignContributions tuple layout.
type rawContribution struct {
	Contributor common.Address
	Amount      *big.Int
	Timestamp   *big.Int
}

func (c *Client) CampaignContributions(ctx context.Context, id uint64) ([]ContributionEvent, error) {
	out, err := c.call(ctx, "getCampaignContributions", new(big.Int).SetUint64(id))
	if err != nil {
		return nil, err
	}
	raw := *abi.ConvertType(out[0], new([]rawContribution)).(*[]rawContribution)
	events := make([]ContributionEvent, 0, len(raw))
	for _, r := range raw {
		events = append(events, ContributionEvent{Contributor: r.Contributor, Amount: r.Amount, Timestamp: r.Timestamp})
	}
	return events, nil
}

func (c *Client) ContractStats(ctx context.Context) (*ContractStats, error) {
	out, err := c.call(ctx, "getContractStats")
	if err != nil {
		return nil, err
	}
	return &ContractStats{
		TotalCampaigns:  *abi.ConvertType(out[0], new(*big.Int)).(**big.Int),
		TotalFees:       *abi.ConvertType(out[1], new(*big.Int)).(**big.Int),
		ContractBalance: *abi.ConvertType(out[2], new(*big.Int)).(**big.Int),
	}, nil
}

func (c *Client) Paused(ctx context.Context) (bool, error) {
	out, err := c.call(ctx, "paused")
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

func (c *Client) Owner(ctx context.Context) (string, error) {
	out, err := c.call(ctx, "owner")
	if err != nil {
		return "", err
	}
	addr := *abi.ConvertType(out[0], new(common.Address)).(*common.Address)
	return addr.Hex(), nil
}

var _ Reader = (*Client)(nil)
