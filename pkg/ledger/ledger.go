/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/scoir/persona/pkg/amqp"
	"github.com/scoir/persona/pkg/datastore"
	"github.com/scoir/persona/pkg/ledger/message"
)

// Ledger applies classified transaction messages to the entity registries.
// It owns no HTTP concerns; the broadcast contract of swallowing failures
// lives with the caller, which is expected to log the returned error and
// report success regardless.
type Ledger struct {
	store  datastore.Store
	events amqp.Publisher
}

func NewLedger(store datastore.Store, events amqp.Publisher) *Ledger {
	return &Ledger{
		store:  store,
		events: events,
	}
}

// Apply classifies the first message of a broadcast transaction body and
// commits it to the matching registry. A nil return means either the message
// was applied or the transaction was a no-op (no message list, empty list,
// missing or unrecognized type discriminator). A non-nil return is a
// validation failure: state is unchanged.
func (r *Ledger) Apply(body []byte) error {
	msg, err := message.Classify(body)
	if err != nil {
		return err
	}

	switch m := msg.(type) {
	case *message.CreateDID:
		return r.applyCreateDID(m)
	case *message.IssueCredential:
		return r.applyIssueCredential(m)
	case *message.SubmitProof:
		return r.applySubmitProof(m)
	case *message.Unknown:
		log.Printf("no handler for message type %s, ignoring", m.TypeURL)
	}

	return nil
}

func (r *Ledger) applyCreateDID(m *message.CreateDID) error {
	now := time.Now().Unix()
	doc := &datastore.DIDDocument{
		ID:         m.Document.ID,
		Controller: m.Document.Controller,
		CreatedAt:  now,
		UpdatedAt:  now,
		IsActive:   true,
	}

	err := r.store.InsertDIDDocument(doc)
	if err != nil {
		return errors.Wrap(err, "unable to insert DID document")
	}

	log.Printf("stored DID %s for controller %s", doc.ID, doc.Controller)
	r.publishEvent(DIDTopic, CreatedEvent, doc)

	return nil
}

func (r *Ledger) applyIssueCredential(m *message.IssueCredential) error {
	cred := &datastore.Credential{
		Claims:    m.Claims,
		IsRevoked: false,
		CreatedAt: time.Now().Unix(),
	}

	err := r.store.AppendCredential(m.Controller, cred)
	if err != nil {
		return errors.Wrap(err, "unable to append credential")
	}

	log.Printf("stored credential for controller %s", m.Controller)
	r.publishEvent(CredentialTopic, IssuedEvent, cred)

	return nil
}

func (r *Ledger) applySubmitProof(m *message.SubmitProof) error {
	proof := &datastore.Proof{
		ID:           fmt.Sprintf("proof_%s", uuid.New().String()),
		CircuitID:    m.CircuitID,
		Prover:       m.Prover,
		ProofData:    m.ProofData,
		PublicInputs: m.PublicInputs,
		Metadata:     m.Metadata,
		IsVerified:   true, // mock verification
		CreatedAt:    time.Now().Unix(),
	}

	err := r.store.AppendProof(m.Prover, proof)
	if err != nil {
		return errors.Wrap(err, "unable to append proof")
	}

	log.Printf("stored proof %s for prover %s", proof.ID, m.Prover)
	r.publishEvent(ProofTopic, SubmittedEvent, proof)

	return nil
}

// publishEvent sends a creation notification when a publisher is configured.
// Publish failures never affect the transaction outcome.
func (r *Ledger) publishEvent(topic, event string, data interface{}) {
	if r.events == nil {
		return
	}

	evt := &Notification{
		Topic:     topic,
		Event:     event,
		EventData: data,
	}

	msg, err := json.Marshal(evt)
	if err != nil {
		log.Println("unexpected error marshalling ledger event", err)
		return
	}

	err = r.events.Publish(msg, "application/json")
	if err != nil {
		log.Println("unable to publish ledger event", err)
	}
}
