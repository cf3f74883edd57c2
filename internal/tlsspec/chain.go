package tlsspec

import (
	"bytes"
	"crypto/x509"
)

// maxChainLength is the implementation-chosen ceiling from §9: ten
// certificates total (leaf + up to nine intermediates/anchor).
const maxChainLength = 10

// TrustAnchors is the explicit-certificate-list mode of §4.D's trust input.
type TrustAnchors struct {
	certs []*x509.Certificate
}

// NewTrustAnchors builds a TrustAnchors set, collapsing duplicate instances
// (equal by encoded form) as step 4 of the algorithm requires.
func NewTrustAnchors(certs ...*x509.Certificate) TrustAnchors {
	var out []*x509.Certificate
	for _, c := range certs {
		dup := false
		for _, existing := range out {
			if bytes.Equal(existing.Raw, c.Raw) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	return TrustAnchors{certs: out}
}

func (t TrustAnchors) contains(c *x509.Certificate) bool {
	for _, a := range t.certs {
		if bytes.Equal(a.Raw, c.Raw) {
			return true
		}
	}
	return false
}

// CleanChain implements §4.D: given the peer-presented certificates P and a
// trust anchor set, returns the unique verified chain ending at a trust
// anchor, or ErrPeerNotVerified. No internal reason ever leaks.
func CleanChain(peers []*x509.Certificate, anchors TrustAnchors) ([]*x509.Certificate, error) {
	if len(peers) == 0 {
		return nil, ErrPeerNotVerified
	}

	// Adjacency index: subject DN (raw bytes) -> candidate issuers, trusted
	// anchors preferred over peers when both share a subject (step 1).
	bySubject := make(map[string][]*x509.Certificate)
	for _, a := range anchors.certs {
		key := string(a.RawSubject)
		bySubject[key] = append([]*x509.Certificate{a}, bySubject[key]...)
	}
	for _, p := range peers {
		key := string(p.RawSubject)
		bySubject[key] = append(bySubject[key], p)
	}

	if len(peers) > maxChainLength {
		return nil, ErrPeerNotVerified
	}

	chain := []*x509.Certificate{peers[0]}
	current := peers[0]

	for {
		selfSigned := bytes.Equal(current.RawSubject, current.RawIssuer)
		if selfSigned {
			if anchors.contains(current) {
				return chain, nil
			}
			return nil, ErrPeerNotVerified
		}

		issuer := findIssuer(current, bySubject[string(current.RawIssuer)], anchors)
		if issuer == nil {
			return nil, ErrPeerNotVerified
		}
		if len(chain)+1 > maxChainLength {
			return nil, ErrPeerNotVerified
		}

		// A trusted non-self-signed certificate ends the chain only when its
		// own issuer is unknown to the index or is the already-appended
		// predecessor (step 6); this stops the walk from looping forever on
		// a cross-signed anchor.
		if anchors.contains(issuer) {
			chain = append(chain, issuer)
			issuerOfIssuer := bySubject[string(issuer.RawIssuer)]
			if len(issuerOfIssuer) == 0 || sameCert(issuerOfIssuer[0], current) {
				return chain, nil
			}
			current = issuer
			continue
		}

		chain = append(chain, issuer)
		current = issuer
	}
}

// findIssuer picks the best issuer candidate for current from the given
// subject bucket, verifying the signature so unrelated certificates sharing
// a subject DN (but not actually the issuer) are rejected.
func findIssuer(current *x509.Certificate, candidates []*x509.Certificate, anchors TrustAnchors) *x509.Certificate {
	var fallback *x509.Certificate
	for _, cand := range candidates {
		if sameCert(cand, current) {
			continue
		}
		if err := current.CheckSignatureFrom(cand); err != nil {
			continue
		}
		if anchors.contains(cand) {
			return cand
		}
		if fallback == nil {
			fallback = cand
		}
	}
	return fallback
}

func sameCert(a, b *x509.Certificate) bool {
	return bytes.Equal(a.Raw, b.Raw)
}
