package auth

import (
	"context"
	"time"
)

// Capability is proof that the admin gate was passed. Its fields are
// unexported, so only this package can produce a valid one.
type Capability struct {
	subject string
	expires time.Time
}

// Valid reports whether the capability was issued and has not expired.
func (c Capability) Valid() bool {
	if c.subject == "" {
		return false
	}
	return c.expires.IsZero() || time.Now().Before(c.expires)
}

// Subject names who holds the capability, for audit records.
func (c Capability) Subject() string { return c.subject }

// Operator returns a non-expiring capability for commands run by someone
// with direct access to the data files (the CLI). It is never handed out
// over the network.
func Operator(name string) Capability {
	if name == "" {
		name = "operator"
	}
	return Capability{subject: name}
}

type capabilityKey struct{}

// WithCapability stores c in ctx.
func WithCapability(ctx context.Context, c Capability) context.Context {
	return context.WithValue(ctx, capabilityKey{}, c)
}

// CapabilityFrom returns the capability stored in ctx, or the zero
// (invalid) capability.
func CapabilityFrom(ctx context.Context) Capability {
	c, _ := ctx.Value(capabilityKey{}).(Capability)
	return c
}
