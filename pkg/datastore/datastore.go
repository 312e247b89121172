/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package datastore

const (
	LedgerC = "Ledger"
)

// Provider storage provider interface
type Provider interface {
	// OpenStore opens a store with given name space and returns the handle
	OpenStore(name string) (Store, error)

	// CloseStore closes store of given name space
	CloseStore(name string) error

	// Close closes all stores created under this store provider
	Close() error
}

//go:generate mockery -name=Store
type Store interface {
	// InsertDIDDocument stores doc unconditionally, overwriting any document
	// at the same ID and repointing the controller index.
	InsertDIDDocument(doc *DIDDocument) error
	GetDIDDocument(id string) (*DIDDocument, error)
	GetDIDDocumentByController(controller string) (*DIDDocument, error)
	ListDIDDocuments() ([]*DIDDocument, error)

	AppendCredential(controller string, c *Credential) error
	// ListCredentials returns the controller's credentials in append order.
	// Unknown controllers yield an empty slice, not an error.
	ListCredentials(controller string) ([]*Credential, error)
	ListAllCredentials() ([]*Credential, error)

	AppendProof(prover string, p *Proof) error
	ListProofs(prover string) ([]*Proof, error)
	ListAllProofs() ([]*Proof, error)
}
