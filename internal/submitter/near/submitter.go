package near

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/mr-tron/base58"
	"github.com/near/borsh-go"
	"github.com/nearfaucet/backend/internal/submitter"
	"github.com/sirupsen/logrus"
)

// Submitter signs transactions with the faucet account's key and broadcasts
// them through the NEAR JSON-RPC endpoint. txMutex serializes sends so that
// concurrent requests do not race on the access-key nonce.
type Submitter struct {
	client           *rpc.Client
	key              KeyPair
	linkDropContract string
	timeout          time.Duration
	txMutex          sync.Mutex
}

func NewSubmitter(client *rpc.Client, key KeyPair, linkDropContract string, timeout time.Duration) submitter.ISubmitter {
	return &Submitter{
		client:           client,
		key:              key,
		linkDropContract: linkDropContract,
		timeout:          timeout,
	}
}

type accessKeyView struct {
	Nonce uint64 `json:"nonce"`
}

type statusView struct {
	SyncInfo struct {
		LatestBlockHash string `json:"latest_block_hash"`
	} `json:"sync_info"`
}

type executionOutcome struct {
	// Final status is an object keyed by variant: SuccessValue, SuccessReceiptId
	// or Failure.
	Status      map[string]json.RawMessage `json:"status"`
	Transaction struct {
		Hash string `json:"hash"`
	} `json:"transaction"`
}

func (s *Submitter) CreateAccount(c context.Context, publicKey string, amount *big.Int, gas uint64) (submitter.Result, error) {
	args, err := json.Marshal(map[string]string{"public_key": publicKey})
	if err != nil {
		return submitter.Result{}, err
	}

	action := NewFunctionCall("send", args, gas, amount)
	return s.send(c, s.linkDropContract, action)
}

func (s *Submitter) SendMoney(c context.Context, accountID string, amount *big.Int) (submitter.Result, error) {
	return s.send(c, accountID, NewTransfer(amount))
}

func (s *Submitter) send(c context.Context, receiverID string, action Action) (submitter.Result, error) {
	s.txMutex.Lock()
	defer s.txMutex.Unlock()

	ctx, cancel := context.WithTimeout(c, s.timeout)
	defer cancel()

	nonce, err := s.nextNonce(ctx)
	if err != nil {
		return submitter.Result{}, err
	}

	blockHash, err := s.latestBlockHash(ctx)
	if err != nil {
		return submitter.Result{}, err
	}

	tx := Transaction{
		SignerID:   s.key.AccountID,
		PublicKey:  s.key.PublicKey,
		Nonce:      nonce,
		ReceiverID: receiverID,
		BlockHash:  blockHash,
		Actions:    []Action{action},
	}

	signed, err := Sign(tx, s.key.PrivateKey)
	if err != nil {
		return submitter.Result{}, err
	}

	payload, err := borsh.Serialize(signed)
	if err != nil {
		return submitter.Result{}, err
	}

	var outcome executionOutcome
	err = s.client.CallContext(ctx, &outcome, "broadcast_tx_commit", base64.StdEncoding.EncodeToString(payload))
	if err != nil {
		return submitter.Result{}, fmt.Errorf("Broadcast to %s failed: %w", receiverID, err)
	}

	_, success := outcome.Status["SuccessValue"]
	if !success {
		logrus.Warnf("Transaction %s to %s did not succeed: %v", outcome.Transaction.Hash, receiverID, outcome.Status)
	}

	return submitter.Result{
		Success: success,
		TxHash:  outcome.Transaction.Hash,
	}, nil
}

func (s *Submitter) nextNonce(ctx context.Context) (uint64, error) {
	var view accessKeyView
	path := fmt.Sprintf("access_key/%s/%s", s.key.AccountID, s.key.PublicKeyString())
	err := s.client.CallContext(ctx, &view, "query", path, "")
	if err != nil {
		return 0, fmt.Errorf("Access key query failed: %w", err)
	}

	return view.Nonce + 1, nil
}

func (s *Submitter) latestBlockHash(ctx context.Context) ([32]byte, error) {
	var hash [32]byte

	var status statusView
	err := s.client.CallContext(ctx, &status, "status")
	if err != nil {
		return hash, fmt.Errorf("Status query failed: %w", err)
	}

	decoded, err := base58.Decode(status.SyncInfo.LatestBlockHash)
	if err != nil || len(decoded) != len(hash) {
		return hash, fmt.Errorf("Invalid block hash '%s'", status.SyncInfo.LatestBlockHash)
	}

	copy(hash[:], decoded)
	return hash, nil
}
