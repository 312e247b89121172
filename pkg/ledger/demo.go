/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"time"

	"github.com/scoir/persona/pkg/datastore"
)

// Static demo records served by the list endpoints ahead of anything created
// through the broadcast endpoint. They are rendered per request and never
// enter the registry, so by-id and by-controller lookups reflect only
// submitted transactions.

func demoDIDDocuments() []*datastore.DIDDocument {
	now := time.Now().Unix()
	return []*datastore.DIDDocument{
		{
			ID:         "did:persona:123",
			Controller: "cosmos1test1",
			CreatedAt:  now,
			UpdatedAt:  now,
			IsActive:   true,
		},
		{
			ID:         "did:persona:456",
			Controller: "cosmos1test2",
			CreatedAt:  now,
			UpdatedAt:  now,
			IsActive:   true,
		},
	}
}

func demoCredentials() []*datastore.Credential {
	now := time.Now().Unix()
	return []*datastore.Credential{
		{
			Claims: map[string]interface{}{
				"id":          "vc_001",
				"issuer_did":  "did:persona:123",
				"subject_did": "did:persona:456",
				"issued_at":   now,
			},
			IsRevoked: false,
			CreatedAt: now,
		},
	}
}

func demoProofs() []*datastore.Proof {
	return []*datastore.Proof{
		{
			ID:         "proof_001",
			CircuitID:  "circuit_001",
			Prover:     "cosmos1test1",
			IsVerified: true,
			CreatedAt:  time.Now().Unix(),
		},
	}
}

func demoCircuits() []*datastore.Circuit {
	return []*datastore.Circuit{
		{
			ID:        "circuit_001",
			Name:      "test_circuit",
			Creator:   "cosmos1test1",
			IsActive:  true,
			CreatedAt: time.Now().Unix(),
		},
	}
}
