/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mem

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/scoir/persona/pkg/datastore"
)

// Provider represents an in-memory implementation of the storage.Provider
// interface. State lives for the process lifetime only.
type Provider struct {
	stores map[string]*memStore
	sync.RWMutex
}

type memStore struct {
	didDocs     map[string]*datastore.DIDDocument
	controllers map[string]string
	credentials map[string][]*datastore.Credential
	proofs      map[string][]*datastore.Proof
	lock        sync.RWMutex
}

// NewProvider instantiates Provider
func NewProvider() *Provider {
	return &Provider{
		stores: map[string]*memStore{},
	}
}

// OpenStore opens and returns the store for given name space.
func (p *Provider) OpenStore(name string) (datastore.Store, error) {
	p.Lock()
	defer p.Unlock()

	if name == "" {
		return nil, errors.New("store name is required")
	}

	store, exists := p.stores[name]
	if exists {
		return store, nil
	}

	store = &memStore{
		didDocs:     map[string]*datastore.DIDDocument{},
		controllers: map[string]string{},
		credentials: map[string][]*datastore.Credential{},
		proofs:      map[string][]*datastore.Proof{},
	}

	p.stores[name] = store

	return store, nil
}

// Close closes the provider.
func (p *Provider) Close() error {
	p.Lock()
	defer p.Unlock()

	p.stores = make(map[string]*memStore)

	return nil
}

// CloseStore closes a previously opened store
func (p *Provider) CloseStore(name string) error {
	p.Lock()
	defer p.Unlock()

	_, exists := p.stores[name]
	if !exists {
		return nil
	}

	delete(p.stores, name)

	return nil
}

func (r *memStore) InsertDIDDocument(doc *datastore.DIDDocument) error {
	if doc == nil || doc.ID == "" {
		return errors.New("DID document with an ID is required")
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	// last writer wins, including the controller index
	if prev, exists := r.didDocs[doc.ID]; exists && prev.Controller != doc.Controller {
		if r.controllers[prev.Controller] == doc.ID {
			delete(r.controllers, prev.Controller)
		}
	}

	r.didDocs[doc.ID] = doc
	r.controllers[doc.Controller] = doc.ID

	return nil
}

func (r *memStore) GetDIDDocument(id string) (*datastore.DIDDocument, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	doc, exists := r.didDocs[id]
	if !exists {
		return nil, errors.Errorf("DID document %s not found", id)
	}

	return doc, nil
}

func (r *memStore) GetDIDDocumentByController(controller string) (*datastore.DIDDocument, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	id, exists := r.controllers[controller]
	if !exists {
		return nil, errors.Errorf("no DID document for controller %s", controller)
	}

	doc, exists := r.didDocs[id]
	if !exists {
		return nil, errors.Errorf("DID document %s not found", id)
	}

	return doc, nil
}

func (r *memStore) ListDIDDocuments() ([]*datastore.DIDDocument, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	out := make([]*datastore.DIDDocument, 0, len(r.didDocs))
	for _, doc := range r.didDocs {
		out = append(out, doc)
	}

	return out, nil
}

func (r *memStore) AppendCredential(controller string, c *datastore.Credential) error {
	if controller == "" {
		return errors.New("controller is required")
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	r.credentials[controller] = append(r.credentials[controller], c)

	return nil
}

func (r *memStore) ListCredentials(controller string) ([]*datastore.Credential, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	out := make([]*datastore.Credential, len(r.credentials[controller]))
	copy(out, r.credentials[controller])

	return out, nil
}

func (r *memStore) ListAllCredentials() ([]*datastore.Credential, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	out := []*datastore.Credential{}
	for _, creds := range r.credentials {
		out = append(out, creds...)
	}

	return out, nil
}

func (r *memStore) AppendProof(prover string, p *datastore.Proof) error {
	if prover == "" {
		return errors.New("prover is required")
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	r.proofs[prover] = append(r.proofs[prover], p)

	return nil
}

func (r *memStore) ListProofs(prover string) ([]*datastore.Proof, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	out := make([]*datastore.Proof, len(r.proofs[prover]))
	copy(out, r.proofs[prover])

	return out, nil
}

func (r *memStore) ListAllProofs() ([]*datastore.Proof, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	out := []*datastore.Proof{}
	for _, proofs := range r.proofs {
		out = append(out, proofs...)
	}

	return out, nil
}
