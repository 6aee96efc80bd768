package codec

import "github.com/bearlytools/recordmodel/record"

// refSite is one deferred ref-field assignment: apply installs target once
// its oid is known, possibly long after the field carrying the reference was
// first decoded (§4.5 — "decode defers resolution of every ref field until
// the whole graph ... has been read").
type refSite struct {
	oid   string
	apply func(target record.Instance)
}

// DecodeContext accumulates every object decoded across one or more Decode
// calls plus every not-yet-resolved reference site, so a graph spanning
// multiple top-level Decode calls (§8 scenario: "unpack A then B into the
// same context") still resolves cross-object refs once all objects are known.
type DecodeContext struct {
	knownObjects map[string]record.Instance
	pending      []refSite
}

// NewDecodeContext returns an empty context.
func NewDecodeContext() *DecodeContext {
	return &DecodeContext{knownObjects: make(map[string]record.Instance)}
}

// Register records inst under its own oid (a no-op if inst has no oid field
// or it is unset), making it available to resolve earlier or later ref sites.
func (c *DecodeContext) Register(inst record.Instance) {
	oid := inst.AsBase().OID()
	if oid == "" {
		return
	}
	c.knownObjects[oid] = inst
}

func (c *DecodeContext) deferRef(oid string, apply func(record.Instance)) {
	c.pending = append(c.pending, refSite{oid: oid, apply: apply})
}

// Resolve attempts to satisfy every still-pending ref site, preferring
// resolveRef (an authoritative external lookup) when supplied, falling back
// to the context's own known-objects index otherwise. Resolved sites are
// applied and dropped from the pending list; it returns the oids that
// remain unresolved after this attempt, so a caller can re-invoke Resolve
// after decoding more objects into the same context.
func (c *DecodeContext) Resolve(resolveRef func(oid string) (any, bool)) map[string]bool {
	unresolved := make(map[string]bool)
	remaining := c.pending[:0]
	for _, site := range c.pending {
		inst, ok := c.lookup(site.oid, resolveRef)
		if ok {
			site.apply(inst)
			continue
		}
		unresolved[site.oid] = true
		remaining = append(remaining, site)
	}
	c.pending = remaining
	return unresolved
}

func (c *DecodeContext) lookup(oid string, resolveRef func(oid string) (any, bool)) (record.Instance, bool) {
	if resolveRef != nil {
		if v, found := resolveRef(oid); found {
			if inst, ok := v.(record.Instance); ok {
				return inst, true
			}
		}
		return nil, false
	}
	inst, ok := c.knownObjects[oid]
	return inst, ok
}
