package hid

// MockLister serves a canned interface list.
type MockLister struct {
	Infos []Info
	Err   error
}

func (m *MockLister) List() ([]Info, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Infos, nil
}
