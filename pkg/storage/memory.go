package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used for tests and for embedding the
// engine without a database.
type MemoryStore struct {
	mu sync.RWMutex

	circuits     map[string]*SLCCircuit
	addresses    map[string]map[int]*DeviceAddress // circuitID → address → row
	connections  map[string]*DeviceConnection      // connection id → row
	calculations map[string]*CircuitCalculations   // circuitID → row
	panels       map[string]*ProjectPanel          // panel row id → row
	specs        map[string]*FireAlarmSpec         // upper-cased model → row
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		circuits:     make(map[string]*SLCCircuit),
		addresses:    make(map[string]map[int]*DeviceAddress),
		connections:  make(map[string]*DeviceConnection),
		calculations: make(map[string]*CircuitCalculations),
		panels:       make(map[string]*ProjectPanel),
		specs:        make(map[string]*FireAlarmSpec),
	}
}

func (m *MemoryStore) CreateCircuit(_ context.Context, c *SLCCircuit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.circuits[c.ID]; exists {
		return ErrDuplicateCircuit
	}
	cp := *c
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	m.circuits[c.ID] = &cp
	m.addresses[c.ID] = make(map[int]*DeviceAddress)
	return nil
}

func (m *MemoryStore) GetCircuit(_ context.Context, id string) (*SLCCircuit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.circuits[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MemoryStore) ListCircuitsByPanel(_ context.Context, panelDeviceID string) ([]*SLCCircuit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*SLCCircuit
	for _, c := range m.circuits {
		if c.PanelDeviceID == panelDeviceID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LoopNumber < out[j].LoopNumber })
	return out, nil
}

func (m *MemoryStore) CreateDeviceAddress(_ context.Context, a *DeviceAddress) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	byAddr, ok := m.addresses[a.CircuitID]
	if !ok {
		return ErrNotFound
	}
	if _, taken := byAddr[a.Address]; taken {
		return ErrDuplicateAddress
	}
	cp := *a
	byAddr[a.Address] = &cp
	return nil
}

func (m *MemoryStore) GetDeviceAddress(_ context.Context, circuitID string, address int) (*DeviceAddress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byAddr, ok := m.addresses[circuitID]
	if !ok {
		return nil, ErrNotFound
	}
	a, ok := byAddr[address]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryStore) ListDeviceAddresses(_ context.Context, circuitID string) ([]*DeviceAddress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byAddr, ok := m.addresses[circuitID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]*DeviceAddress, 0, len(byAddr))
	for _, a := range byAddr {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out, nil
}

func (m *MemoryStore) DeleteDeviceAddress(_ context.Context, circuitID string, address int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byAddr, ok := m.addresses[circuitID]
	if !ok {
		return false, nil
	}
	if _, exists := byAddr[address]; !exists {
		return false, nil
	}
	delete(byAddr, address)
	return true, nil
}

func (m *MemoryStore) CreateConnection(_ context.Context, c *DeviceConnection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *c
	m.connections[c.ID] = &cp
	return nil
}

func (m *MemoryStore) ListConnectionsByCircuit(_ context.Context, circuitID string) ([]*DeviceConnection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*DeviceConnection
	for _, c := range m.connections {
		if c.CircuitID == circuitID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) DeleteConnectionsForAddress(_ context.Context, addressRowID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, c := range m.connections {
		if c.FromAddressID == addressRowID || c.ToAddressID == addressRowID {
			delete(m.connections, id)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryStore) UpsertCalculations(_ context.Context, c *CircuitCalculations) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *c
	cp.UpdatedAt = time.Now()
	m.calculations[c.CircuitID] = &cp
	return nil
}

func (m *MemoryStore) GetCalculations(_ context.Context, circuitID string) (*CircuitCalculations, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.calculations[circuitID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MemoryStore) CreatePanel(_ context.Context, p *ProjectPanel) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *p
	m.panels[p.ID] = &cp
	return nil
}

func (m *MemoryStore) ListPanelsByProject(_ context.Context, projectID string) ([]*ProjectPanel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*ProjectPanel
	for _, p := range m.panels {
		if p.ProjectID == projectID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) UpsertDeviceSpec(_ context.Context, s *FireAlarmSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *s
	m.specs[strings.ToUpper(s.Model)] = &cp
	return nil
}

func (m *MemoryStore) ListDeviceSpecs(_ context.Context) ([]*FireAlarmSpec, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*FireAlarmSpec, 0, len(m.specs))
	for _, s := range m.specs {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Model < out[j].Model })
	return out, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
