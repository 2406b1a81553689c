// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package factory

import (
	"errors"
	"fmt"

	dbm "github.com/33cn/raffle/common/db"
	rty "github.com/33cn/raffle/dapp/raffle/types"
	"github.com/33cn/raffle/types"
	pkgerr "github.com/pkg/errors"
)

// RegistryX 执行器名字
const RegistryX = "registry"

// registry policies
const (
	PolicyOwned  = "owned"
	PolicyLocked = "locked"
)

var (
	ErrRegistrarLocked   = errors.New("ErrRegistrarLocked")
	ErrAlreadyRegistered = errors.New("ErrAlreadyRegistered")
	ErrPolicy            = errors.New("ErrPolicy")
)

// AuthorityPolicy decides who may set the registrar
type AuthorityPolicy interface {
	Name() string
	CanSetRegistrar(caller, current string) error
}

// OwnedPolicy an owner sets and rotates the registrar
type OwnedPolicy struct {
	Owner string
}

// Name policy name
func (p *OwnedPolicy) Name() string { return PolicyOwned }

// CanSetRegistrar owner only, any number of times
func (p *OwnedPolicy) CanSetRegistrar(caller, current string) error {
	if p.Owner == "" || caller != p.Owner {
		return types.ErrNoPrivilege
	}
	return nil
}

// LockedPolicy no owner, the registrar is set once and then locked
type LockedPolicy struct{}

// Name policy name
func (p *LockedPolicy) Name() string { return PolicyLocked }

// CanSetRegistrar only while unset
func (p *LockedPolicy) CanSetRegistrar(caller, current string) error {
	if current != "" {
		return ErrRegistrarLocked
	}
	return nil
}

// NewPolicy by name from the node configuration
func NewPolicy(name, owner string) (AuthorityPolicy, error) {
	switch name {
	case PolicyOwned:
		return &OwnedPolicy{Owner: owner}, nil
	case PolicyLocked, "":
		return &LockedPolicy{}, nil
	}
	return nil, pkgerr.Wrapf(ErrPolicy, "policy %q", name)
}

// Record discovery record of one deployed instance
type Record struct {
	TypeID   string `cbor:"1,keyasint" json:"typeId"`
	Instance string `cbor:"2,keyasint" json:"instance"`
	Creator  string `cbor:"3,keyasint" json:"creator"`
	Seq      int64  `cbor:"4,keyasint" json:"seq"`
}

func calcRegistrarKey() []byte {
	return []byte(string(types.CalcStatePrefix(RegistryX)) + "registrar")
}

func calcRegistrySeqKey() []byte {
	return []byte(string(types.CalcStatePrefix(RegistryX)) + "seq")
}

func calcRecordKey(instance string) []byte {
	return []byte(string(types.CalcStatePrefix(RegistryX)) + "inst-" + instance)
}

func calcSeqIndexKey(seq int64) []byte {
	return []byte(fmt.Sprintf("%sidx-%020d", types.CalcStatePrefix(RegistryX), seq))
}

// Registry append only record of deployed instances
type Registry struct {
	db     dbm.KV
	policy AuthorityPolicy
}

// NewRegistry registry over db with the given authority policy
func NewRegistry(db dbm.KV, policy AuthorityPolicy) *Registry {
	return &Registry{db: db, policy: policy}
}

// Policy active authority policy
func (r *Registry) Policy() AuthorityPolicy {
	return r.policy
}

// Registrar current registrar, empty when unset
func (r *Registry) Registrar() string {
	value, err := r.db.Get(calcRegistrarKey())
	if err != nil {
		return ""
	}
	return string(value)
}

// SetRegistrar subject to the authority policy
func (r *Registry) SetRegistrar(caller, registrar string) (*types.Receipt, error) {
	if registrar == "" {
		return nil, types.ErrInvalidParam
	}
	if err := r.policy.CanSetRegistrar(caller, r.Registrar()); err != nil {
		return nil, err
	}
	receipt := types.NewReceipt()
	r.set(receipt, calcRegistrarKey(), []byte(registrar))
	flog.Info("SetRegistrar", "policy", r.policy.Name(), "registrar", registrar)
	return receipt, nil
}

// Register records instance once; only the registrar may call it
func (r *Registry) Register(caller, typeID, instance, creator string) (*types.Receipt, error) {
	if registrar := r.Registrar(); registrar == "" || caller != registrar {
		return nil, types.ErrNoPrivilege
	}
	if _, err := r.db.Get(calcRecordKey(instance)); err == nil {
		return nil, ErrAlreadyRegistered
	}
	seq := r.Count() + 1
	rec := &Record{TypeID: typeID, Instance: instance, Creator: creator, Seq: seq}
	receipt := types.NewReceipt()
	r.set(receipt, calcRecordKey(instance), types.Encode(rec))
	r.set(receipt, calcSeqIndexKey(seq), []byte(instance))
	r.set(receipt, calcRegistrySeqKey(), types.Encode(seq))
	receipt.AddLog(rty.TyLogRaffleRegister, &rty.ReceiptRaffleRegister{
		TypeID:   typeID,
		Instance: instance,
		Creator:  creator,
		Seq:      seq,
	})
	return receipt, nil
}

// Get record of instance
func (r *Registry) Get(instance string) (*Record, error) {
	value, err := r.db.Get(calcRecordKey(instance))
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := types.Decode(value, &rec); err != nil {
		return nil, pkgerr.Wrap(err, "Registry.Get")
	}
	return &rec, nil
}

// Count records so far
func (r *Registry) Count() int64 {
	value, err := r.db.Get(calcRegistrySeqKey())
	if err != nil {
		return 0
	}
	var seq int64
	types.MustDecode(value, &seq)
	return seq
}

// List records in registration order, seq starts at 1
func (r *Registry) List(from int64, count int32) ([]*Record, error) {
	if from < 1 {
		from = 1
	}
	n := int64(dbm.NormalizeCount(count))
	total := r.Count()
	var recs []*Record
	for seq := from; seq <= total && seq < from+n; seq++ {
		instance, err := r.db.Get(calcSeqIndexKey(seq))
		if err != nil {
			return nil, err
		}
		rec, err := r.Get(string(instance))
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (r *Registry) set(receipt *types.Receipt, key, value []byte) {
	if err := r.db.Set(key, value); err != nil {
		panic(err)
	}
	receipt.KV = append(receipt.KV, &types.KeyValue{Key: key, Value: value})
}
