// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package vrforacle 外部随机数服务

请求方预付原生币, 由运营者在之后的交易里调用 Fulfill 交付,
随机数由提供者的 VRF 私钥对 seed||id 求值得到, 任何人都可以用公钥验证.
*/
package vrforacle

import (
	"sort"

	"github.com/33cn/raffle/common"
	"github.com/33cn/raffle/common/address"
	dbm "github.com/33cn/raffle/common/db"
	"github.com/33cn/raffle/common/vrf"
	"github.com/33cn/raffle/common/vrf/p256"
	"github.com/33cn/raffle/types"
	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
)

var olog = log.New("module", "execs.vrforacle")

// Consumer receives the randomness
type Consumer interface {
	OnRandomnessDelivered(sender string, requestID uint64, provider string, value [32]byte) (*types.Receipt, error)
}

// Resolver finds the consumer living at an address
type Resolver func(addr string) (Consumer, error)

// NativeLedger fee payments
type NativeLedger interface {
	Transfer(from, to string, amount int64) (*types.Receipt, error)
}

// Oracle randomness service
type Oracle struct {
	db        dbm.KV
	native    NativeLedger
	addr      string
	operator  string
	baseFee   int64
	gasPrice  int64
	providers map[string]vrf.PrivateKey
	resolver  Resolver
}

// New oracle from the node configuration
func New(cfg *types.Oracle, db dbm.KV, native NativeLedger) (*Oracle, error) {
	o := &Oracle{
		db:        db,
		native:    native,
		addr:      address.ExecAddress(OracleX),
		operator:  cfg.Operator,
		baseFee:   cfg.BaseFee,
		gasPrice:  cfg.GasPrice,
		providers: make(map[string]vrf.PrivateKey),
	}
	if o.baseFee < 0 || o.gasPrice < 0 {
		return nil, types.ErrInvalidParam
	}
	for name, hex := range cfg.Providers {
		key, err := p256.NewPrivateKeyFromHex(hex)
		if err != nil {
			return nil, errors.Wrapf(err, "provider %s", name)
		}
		o.AddProvider(name, key)
	}
	return o, nil
}

// AddProvider register or replace a provider key
func (o *Oracle) AddProvider(name string, key vrf.PrivateKey) {
	o.providers[name] = key
}

// HasProvider true when name has a registered key
func (o *Oracle) HasProvider(name string) bool {
	_, ok := o.providers[name]
	return ok
}

// Providers registered identities, sorted
func (o *Oracle) Providers() []string {
	names := make([]string, 0, len(o.providers))
	for name := range o.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetResolver consumer lookup used by Fulfill
func (o *Oracle) SetResolver(r Resolver) {
	o.resolver = r
}

// Address of the service, the only sender consumers accept
func (o *Oracle) Address() string {
	return o.addr
}

// Operator address allowed to fulfil
func (o *Oracle) Operator() string {
	return o.operator
}

// QuoteFee BaseFee + gasBudget*GasPrice
func (o *Oracle) QuoteFee(gasBudget uint32) int64 {
	return o.baseFee + int64(gasBudget)*o.gasPrice
}

// Request records a new request paid by consumer
func (o *Oracle) Request(consumer, provider string, seed []byte, gasBudget uint32, payment int64) (uint64, *types.Receipt, error) {
	if _, ok := o.providers[provider]; !ok {
		return 0, nil, errors.Wrap(ErrUnknownProvider, provider)
	}
	quote := o.QuoteFee(gasBudget)
	if payment < quote {
		return 0, nil, errors.Wrapf(ErrInsufficientPayment, "payment %d quote %d", payment, quote)
	}
	receipt := types.NewReceipt()
	if payment > 0 {
		pay, err := o.native.Transfer(consumer, o.addr, payment)
		if err != nil {
			return 0, nil, errors.Wrap(err, "Request.payment")
		}
		receipt.Merge(pay)
	}
	id := o.nextID(receipt)
	req := &Request{
		ID:        id,
		Consumer:  consumer,
		Provider:  provider,
		Seed:      seed,
		GasBudget: gasBudget,
		Payment:   payment,
	}
	o.save(receipt, req)
	receipt.AddLog(TyLogOracleRequest, &ReceiptOracleRequest{
		ID:       id,
		Consumer: consumer,
		Provider: provider,
		Payment:  payment,
	})
	olog.Info("Request", "id", id, "consumer", consumer, "provider", provider, "payment", payment)
	return id, receipt, nil
}

// Fulfill evaluates the provider VRF and delivers the value. An error from
// the consumer fails the whole delivery.
func (o *Oracle) Fulfill(caller string, id uint64) (*types.Receipt, error) {
	if caller != o.operator {
		return nil, types.ErrNoPrivilege
	}
	req, err := o.GetRequest(id)
	if err != nil {
		return nil, err
	}
	if req.Fulfilled {
		return nil, ErrAlreadyFulfilled
	}
	key, ok := o.providers[req.Provider]
	if !ok {
		return nil, errors.Wrap(ErrUnknownProvider, req.Provider)
	}
	if o.resolver == nil {
		return nil, ErrNoResolver
	}
	consumer, err := o.resolver(req.Consumer)
	if err != nil {
		return nil, errors.Wrapf(err, "Fulfill.resolve %s", req.Consumer)
	}
	value, proof, err := key.Evaluate(message(req.Seed, id))
	if err != nil {
		return nil, errors.Wrap(err, "Fulfill.evaluate")
	}
	delivered, err := consumer.OnRandomnessDelivered(o.addr, id, req.Provider, value)
	if err != nil {
		olog.Error("Fulfill consumer failed", "id", id, "consumer", req.Consumer, "err", err)
		return nil, err
	}
	receipt := types.NewReceipt()
	req.Fulfilled = true
	req.Value = value[:]
	req.Proof = proof
	o.save(receipt, req)
	receipt.AddLog(TyLogOracleFulfill, &ReceiptOracleFulfill{ID: id, Value: req.Value, Proof: proof})
	receipt.Merge(delivered)
	olog.Info("Fulfill", "id", id, "consumer", req.Consumer, "value", common.ToHex(req.Value))
	return receipt, nil
}

// Verify checks the stored proof against the provider public key
func (o *Oracle) Verify(id uint64) ([32]byte, error) {
	var value [32]byte
	req, err := o.GetRequest(id)
	if err != nil {
		return value, err
	}
	if !req.Fulfilled {
		return value, ErrNotFulfilled
	}
	key, ok := o.providers[req.Provider]
	if !ok {
		return value, errors.Wrap(ErrUnknownProvider, req.Provider)
	}
	pub, ok := key.Public().(vrf.PublicKey)
	if !ok {
		return value, p256.ErrInvalidKey
	}
	value, err = pub.ProofToHash(message(req.Seed, id), req.Proof)
	if err != nil {
		return value, err
	}
	if string(value[:]) != string(req.Value) {
		return value, p256.ErrInvalidVRF
	}
	return value, nil
}

// GetRequest load request by id
func (o *Oracle) GetRequest(id uint64) (*Request, error) {
	value, err := o.db.Get(calcRequestKey(id))
	if err != nil {
		if err == types.ErrNotFound {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	var req Request
	if err := types.Decode(value, &req); err != nil {
		return nil, errors.Wrap(err, "GetRequest.decode")
	}
	return &req, nil
}

func (o *Oracle) nextID(receipt *types.Receipt) uint64 {
	var seq uint64
	if value, err := o.db.Get(calcSeqKey()); err == nil {
		types.MustDecode(value, &seq)
	}
	seq++
	o.set(receipt, calcSeqKey(), types.Encode(seq))
	return seq
}

func (o *Oracle) save(receipt *types.Receipt, req *Request) {
	o.set(receipt, calcRequestKey(req.ID), types.Encode(req))
}

func (o *Oracle) set(receipt *types.Receipt, key, value []byte) {
	if err := o.db.Set(key, value); err != nil {
		panic(err)
	}
	receipt.KV = append(receipt.KV, &types.KeyValue{Key: key, Value: value})
}
