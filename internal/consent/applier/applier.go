// Package applier enacts granted consents on chain.
package applier

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"marketaccess/internal/consent/models"
	"marketaccess/internal/ethsig"
	dErrors "marketaccess/pkg/domain-errors"
)

// ApplyRequest is one consent response to enact.
type ApplyRequest struct {
	Consent   models.Consent
	Permitted models.PossibleRequests
	Signer    ethsig.Signer
}

// Backend is what the applier needs from an Ethereum node.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

type Option func(*ChainApplier)

func WithLogger(logger *slog.Logger) Option {
	return func(a *ChainApplier) { a.logger = logger }
}

// WithGasLimit skips gas estimation.
func WithGasLimit(limit uint64) Option {
	return func(a *ChainApplier) { a.gasLimit = limit }
}

// ChainApplier calls a configured contract method with
// (keccak(dataset), keccak(algorithm), publisher, algorithm, network).
type ChainApplier struct {
	backend  Backend
	contract *bind.BoundContract
	address  common.Address
	method   string
	chainID  *big.Int
	gasLimit uint64
	logger   *slog.Logger
}

func NewChainApplier(backend Backend, contract common.Address, abiJSON, method string, chainID int64, opts ...Option) (*ChainApplier, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("parse consent contract abi: %w", err)
	}
	m, ok := parsed.Methods[method]
	if !ok {
		return nil, fmt.Errorf("consent contract abi has no method %q", method)
	}
	if len(m.Inputs) != 5 {
		return nil, fmt.Errorf("consent contract method %q takes %d inputs, want 5", method, len(m.Inputs))
	}
	a := &ChainApplier{
		backend:  backend,
		contract: bind.NewBoundContract(contract, parsed, backend, backend, backend),
		address:  contract,
		method:   method,
		chainID:  big.NewInt(chainID),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Apply sends the transaction and waits for it to be mined. Denied consents
// have nothing to enact.
func (a *ChainApplier) Apply(ctx context.Context, req ApplyRequest) error {
	if !req.Permitted.Any() {
		return nil
	}
	if req.Signer == nil {
		return dErrors.New(dErrors.CodeBadRequest, "a signer is required to apply a consent")
	}
	opts, err := req.Signer.TransactOpts(ctx, a.chainID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to prepare transaction")
	}
	opts.Context = ctx
	if a.gasLimit > 0 {
		opts.GasLimit = a.gasLimit
	}

	tx, err := a.contract.Transact(opts, a.method,
		crypto.Keccak256Hash([]byte(req.Consent.Dataset)),
		crypto.Keccak256Hash([]byte(req.Consent.Algorithm)),
		req.Permitted.TrustedAlgorithmPublisher,
		req.Permitted.TrustedAlgorithm,
		req.Permitted.AllowNetworkAccess,
	)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "consent transaction was rejected")
	}
	a.logger.InfoContext(ctx, "consent transaction sent",
		"consent_id", req.Consent.ID,
		"tx", tx.Hash().Hex(),
		"contract", a.address.Hex(),
	)

	receipt, err := bind.WaitMined(ctx, a.backend, tx)
	if err != nil {
		if ctx.Err() != nil {
			return dErrors.Wrap(err, dErrors.CodeTimeout, "consent transaction not mined")
		}
		return dErrors.Wrap(err, dErrors.CodeUpstream, "consent transaction not mined")
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return dErrors.New(dErrors.CodeUpstream, "consent transaction reverted")
	}
	return nil
}

// Noop stands in when no chain is configured.
type Noop struct {
	Logger *slog.Logger
}

func (n Noop) Apply(ctx context.Context, req ApplyRequest) error {
	if n.Logger != nil {
		n.Logger.DebugContext(ctx, "no chain configured, consent not applied", "consent_id", req.Consent.ID)
	}
	return nil
}
