package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/state"
)

// MockRules serves custom rule entries. Only FetchCustom is implemented;
// actions read nothing else from their rules.
type MockRules struct {
	chain.Rules
	Custom map[string]any
}

func (m *MockRules) FetchCustom(key string) (any, bool) {
	v, ok := m.Custom[key]
	return v, ok
}

var _ state.Mutable = (*declaredStore)(nil)

// declaredStore fails any access outside the keys an action declared, the
// way the chain's scoped state does.
type declaredStore struct {
	state.Mutable
	keys state.Keys
}

func (d *declaredStore) check(key []byte, perm state.Permissions) error {
	have, ok := d.keys[string(key)]
	if !ok || !have.Has(perm) {
		return fmt.Errorf("undeclared access %v to key %x", perm, key)
	}
	return nil
}

func (d *declaredStore) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	if err := d.check(key, state.Read); err != nil {
		return nil, err
	}
	return d.Mutable.GetValue(ctx, key)
}

func (d *declaredStore) Insert(ctx context.Context, key []byte, value []byte) error {
	if err := d.check(key, state.Write); err != nil {
		return err
	}
	return d.Mutable.Insert(ctx, key, value)
}

func (d *declaredStore) Remove(ctx context.Context, key []byte) error {
	if err := d.check(key, state.Write); err != nil {
		return err
	}
	return d.Mutable.Remove(ctx, key)
}
