package storage

// Credentials reads and writes user-supplied API keys.
type Credentials struct {
	kv Store
}

func NewCredentials(kv Store) *Credentials {
	return &Credentials{kv: kv}
}

// Get returns the stored credential for key, or "" when none is stored or the
// stored value is unreadable.
func (c *Credentials) Get(key string) string {
	var v string
	if ok, err := GetJSON(c.kv, key, &v); err != nil || !ok {
		return ""
	}
	return v
}

func (c *Credentials) Set(key, value string) error {
	return SetJSON(c.kv, key, value)
}

func (c *Credentials) Remove(key string) error {
	return c.kv.Remove(key)
}
