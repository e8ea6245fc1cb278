package docmill

import "strings"

// ScopeMode governs which discovered URLs may be fetched and recursed.
type ScopeMode string

// Supported scope modes.
const (
	ModeMainDomainOnly ScopeMode = "main-domain"
	ModeExternalOnce   ScopeMode = "external-once"
	ModeUnbounded      ScopeMode = "unbounded"
	ModeWhitelistOnly  ScopeMode = "whitelist"
)

// ScopeClass classifies a discovered URL relative to the scan's scope.
type ScopeClass string

// Scope classes recorded in the ledger.
const (
	ScopeInternal          ScopeClass = "internal"
	ScopeExternalOnce      ScopeClass = "external_once"
	ScopeExternalRecursive ScopeClass = "external_recursive"
	ScopeBlocked           ScopeClass = "blocked"
)

// Action is a scope decision for a single URL.
type Action int

// Scope decisions.
const (
	ActionSkip Action = iota
	ActionFetchOnly
	ActionFetchRecurse
)

// ScopePolicy decides whether a URL may be fetched and whether its links
// may be followed. The policy is an immutable snapshot for the duration
// of one scan run; its sets are shared read-only across workers.
//
// MaxURLs caps total ledger records created, not fetches attempted; it
// is enforced by the frontier's record counter so the check-and-insert
// stays atomic with deduplication.
type ScopePolicy struct {
	Mode       ScopeMode
	Whitelist  map[string]struct{}
	Blacklist  map[string]struct{}
	MaxDepth   int // inclusive ceiling; negative means unlimited
	MaxURLs    int // total records; zero or negative means unlimited
	Exclusions ExclusionRules
}

// Validate returns an error if the policy cannot start a scan.
// Configuration errors are fatal; everything later is per-URL.
func (p *ScopePolicy) Validate() error {
	switch p.Mode {
	case ModeMainDomainOnly, ModeExternalOnce, ModeUnbounded, ModeWhitelistOnly:
	default:
		return Errorf(EINVALID, "invalid scope mode %q", p.Mode)
	}
	if p.Mode == ModeWhitelistOnly && len(p.Whitelist) == 0 {
		return Errorf(EINVALID, "whitelist mode requires at least one whitelisted domain")
	}
	for d := range p.Whitelist {
		if _, ok := p.Blacklist[d]; ok {
			return Errorf(EINVALID, "domain %q is both whitelisted and blacklisted", d)
		}
	}
	return nil
}

// ScopeClassFor maps a URL and its domain classification onto a scope
// class under the policy's mode. Host comparison is exact, so
// subdomains of the main domain count as external.
func (p *ScopePolicy) ScopeClassFor(rawURL string, class DomainClass) ScopeClass {
	host := Host(rawURL)
	if p.blacklisted(host) {
		return ScopeBlocked
	}

	switch p.Mode {
	case ModeWhitelistOnly:
		if p.whitelisted(host) {
			return ScopeInternal
		}
		return ScopeBlocked
	case ModeMainDomainOnly:
		if class == DomainSame {
			return ScopeInternal
		}
		return ScopeBlocked
	case ModeExternalOnce:
		if class == DomainSame {
			return ScopeInternal
		}
		return ScopeExternalOnce
	case ModeUnbounded:
		if class == DomainSame {
			return ScopeInternal
		}
		return ScopeExternalRecursive
	}
	return ScopeBlocked
}

// Decide returns the action for a URL at the given depth. The depth
// ceiling is checked before any domain-based rule.
func (p *ScopePolicy) Decide(rawURL string, depth int, class ScopeClass) Action {
	if p.MaxDepth >= 0 && depth > p.MaxDepth {
		return ActionSkip
	}
	if p.Exclusions.IsExcluded(rawURL) {
		return ActionSkip
	}
	switch class {
	case ScopeInternal, ScopeExternalRecursive:
		return ActionFetchRecurse
	case ScopeExternalOnce:
		return ActionFetchOnly
	}
	return ActionSkip
}

func (p *ScopePolicy) whitelisted(host string) bool {
	if _, ok := p.Whitelist[host]; ok {
		return true
	}
	// A whitelisted domain admits its subdomains.
	for d := range p.Whitelist {
		if len(host) > len(d) && host[len(host)-len(d)-1] == '.' && host[len(host)-len(d):] == d {
			return true
		}
	}
	return false
}

func (p *ScopePolicy) blacklisted(host string) bool {
	if _, ok := p.Blacklist[host]; ok {
		return true
	}
	for d := range p.Blacklist {
		if len(host) > len(d) && host[len(host)-len(d)-1] == '.' && host[len(host)-len(d):] == d {
			return true
		}
	}
	return false
}

// DomainSet builds a lowercase domain set from a slice.
func DomainSet(domains []string) map[string]struct{} {
	if len(domains) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			set[d] = struct{}{}
		}
	}
	return set
}
