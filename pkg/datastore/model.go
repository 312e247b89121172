/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package datastore

import (
	"encoding/json"
)

// DIDDocument is the registry record for a decentralized identifier. The ID
// is opaque and caller supplied; the controller is the owning account address.
type DIDDocument struct {
	ID         string `json:"id"`
	Controller string `json:"controller"`
	CreatedAt  int64  `json:"created_at"`
	UpdatedAt  int64  `json:"updated_at"`
	IsActive   bool   `json:"is_active"`
}

// Credential holds an issued credential's claims along with the registry
// stamps. Claims are schemaless; the registry records them as given.
type Credential struct {
	Claims    map[string]interface{}
	IsRevoked bool
	CreatedAt int64
}

// MarshalJSON flattens the claims into the wire object alongside the
// registry stamps, matching the persona REST shape.
func (r *Credential) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Claims)+2)
	for k, v := range r.Claims {
		out[k] = v
	}
	out["is_revoked"] = r.IsRevoked
	out["created_at"] = r.CreatedAt

	return json.Marshal(out)
}

func (r *Credential) UnmarshalJSON(data []byte) error {
	m := map[string]interface{}{}
	err := json.Unmarshal(data, &m)
	if err != nil {
		return err
	}

	if v, ok := m["is_revoked"].(bool); ok {
		r.IsRevoked = v
	}
	if v, ok := m["created_at"].(float64); ok {
		r.CreatedAt = int64(v)
	}
	delete(m, "is_revoked")
	delete(m, "created_at")
	r.Claims = m

	return nil
}

// Proof is a submitted zero-knowledge proof record. No verification occurs;
// IsVerified is set by the handler that accepts the submission.
type Proof struct {
	ID           string      `json:"id"`
	CircuitID    string      `json:"circuit_id"`
	Prover       string      `json:"prover"`
	ProofData    string      `json:"proof_data"`
	PublicInputs interface{} `json:"public_inputs"`
	Metadata     interface{} `json:"metadata"`
	IsVerified   bool        `json:"is_verified"`
	CreatedAt    int64       `json:"created_at"`
}

// Circuit is a named proof scheme. Circuits are never executed; the registry
// serves a static set for the demo query surface.
type Circuit struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Creator   string `json:"creator"`
	IsActive  bool   `json:"is_active"`
	CreatedAt int64  `json:"created_at"`
}

// TxReceipt is the synthetic broadcast response. Code is always zero;
// callers cannot distinguish an applied transaction from an ignored one
// without re-querying state.
type TxReceipt struct {
	TxHash string `json:"txhash"`
	Height int64  `json:"height"`
	Code   int    `json:"code"`
	Data   string `json:"data"`
}
