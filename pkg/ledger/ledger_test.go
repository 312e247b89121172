/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scoir/persona/pkg/datastore"
	"github.com/scoir/persona/pkg/datastore/mem"
)

type mockPublisher struct {
	published [][]byte
	err       error
}

func (r *mockPublisher) Publish(body []byte, _ string) error {
	r.published = append(r.published, body)
	return r.err
}

func (r *mockPublisher) Close() error {
	return nil
}

func setup(t *testing.T) (*Ledger, datastore.Store, *mockPublisher) {
	store, err := mem.NewProvider().OpenStore(datastore.LedgerC)
	require.NoError(t, err)

	pub := &mockPublisher{}
	return NewLedger(store, pub), store, pub
}

func createDIDTx(id, controller string) []byte {
	return []byte(fmt.Sprintf(
		`{"tx":{"body":{"messages":[{"@type":"/persona.did.v1.MsgCreateDid","creator":%q,"did_document":"{\"id\":\"%s\",\"controller\":\"%s\"}"}]}}}`,
		controller, id, controller))
}

func issueCredentialTx(creator, vcData string) []byte {
	return []byte(fmt.Sprintf(
		`{"tx":{"body":{"messages":[{"@type":"/persona.vc.v1.MsgIssueCredential","creator":%q,"vc_data":%q}]}}}`,
		creator, vcData))
}

func TestApplyCreateDID(t *testing.T) {
	t.Run("cross-index consistency", func(t *testing.T) {
		target, store, pub := setup(t)

		err := target.Apply(createDIDTx("did:x:1", "addrA"))
		require.NoError(t, err)

		doc, err := store.GetDIDDocument("did:x:1")
		require.NoError(t, err)
		require.Equal(t, "did:x:1", doc.ID)
		require.True(t, doc.IsActive)
		require.NotZero(t, doc.CreatedAt)

		doc, err = store.GetDIDDocumentByController("addrA")
		require.NoError(t, err)
		require.Equal(t, "did:x:1", doc.ID)

		require.Len(t, pub.published, 1)
	})
	t.Run("idempotent overwrite", func(t *testing.T) {
		target, store, _ := setup(t)

		require.NoError(t, target.Apply(createDIDTx("did:x:1", "addrA")))
		require.NoError(t, target.Apply(createDIDTx("did:x:1", "addrB")))

		doc, err := store.GetDIDDocument("did:x:1")
		require.NoError(t, err)
		require.Equal(t, "addrB", doc.Controller)

		docs, err := store.ListDIDDocuments()
		require.NoError(t, err)
		require.Len(t, docs, 1)
	})
	t.Run("missing document fields reject without mutation", func(t *testing.T) {
		target, store, pub := setup(t)

		body := `{"tx":{"body":{"messages":[{"@type":"/persona.did.v1.MsgCreateDid","did_document":"{\"id\":\"did:x:1\"}"}]}}}`
		err := target.Apply([]byte(body))
		require.Error(t, err)

		docs, err := store.ListDIDDocuments()
		require.NoError(t, err)
		require.Empty(t, docs)
		require.Empty(t, pub.published)
	})
}

func TestApplyIssueCredential(t *testing.T) {
	t.Run("controller fan-out in submission order", func(t *testing.T) {
		target, store, _ := setup(t)

		require.NoError(t, target.Apply(issueCredentialTx("addrB", `{"name":"first"}`)))
		require.NoError(t, target.Apply(issueCredentialTx("addrB", `{"name":"second"}`)))

		creds, err := store.ListCredentials("addrB")
		require.NoError(t, err)
		require.Len(t, creds, 2)
		require.Equal(t, "first", creds[0].Claims["name"])
		require.Equal(t, "second", creds[1].Claims["name"])
		require.False(t, creds[0].IsRevoked)
		require.NotZero(t, creds[0].CreatedAt)
	})
	t.Run("missing creator appends nothing", func(t *testing.T) {
		target, store, _ := setup(t)

		body := `{"tx":{"body":{"messages":[{"@type":"/persona.vc.v1.MsgIssueCredential","vc_data":"{}"}]}}}`
		err := target.Apply([]byte(body))
		require.Error(t, err)

		creds, err := store.ListAllCredentials()
		require.NoError(t, err)
		require.Empty(t, creds)
	})
}

func TestApplySubmitProof(t *testing.T) {
	t.Run("stores a verified proof", func(t *testing.T) {
		target, store, pub := setup(t)

		body := `{"tx":{"body":{"messages":[{"@type":"/persona.zk.v1.MsgSubmitProof","creator":"addrC","circuit_id":"circ1","proof":"0xabc","public_inputs":["1"]}]}}}`
		err := target.Apply([]byte(body))
		require.NoError(t, err)

		proofs, err := store.ListProofs("addrC")
		require.NoError(t, err)
		require.Len(t, proofs, 1)
		require.True(t, proofs[0].IsVerified)
		require.Equal(t, "addrC", proofs[0].Prover)
		require.Equal(t, "circ1", proofs[0].CircuitID)
		require.Equal(t, "0xabc", proofs[0].ProofData)
		require.NotEmpty(t, proofs[0].ID)

		require.Len(t, pub.published, 1)
	})
	t.Run("proof ids are unique under rapid submission", func(t *testing.T) {
		target, store, _ := setup(t)

		body := `{"tx":{"body":{"messages":[{"@type":"/persona.zk.v1.MsgSubmitProof","creator":"addrC","circuit_id":"circ1","proof":"0xabc"}]}}}`
		require.NoError(t, target.Apply([]byte(body)))
		require.NoError(t, target.Apply([]byte(body)))

		proofs, err := store.ListProofs("addrC")
		require.NoError(t, err)
		require.Len(t, proofs, 2)
		require.NotEqual(t, proofs[0].ID, proofs[1].ID)
	})
}

func TestApplyNoOps(t *testing.T) {
	t.Run("unknown type leaves registries unchanged", func(t *testing.T) {
		target, store, pub := setup(t)

		body := `{"tx":{"body":{"messages":[{"@type":"/persona.did.v1.MsgRevokeDid","did_document":{"id":"did:x:1","controller":"addrA"}}]}}}`
		err := target.Apply([]byte(body))
		require.NoError(t, err)

		docs, err := store.ListDIDDocuments()
		require.NoError(t, err)
		require.Empty(t, docs)
		require.Empty(t, pub.published)
	})
	t.Run("undecodable body is a no-op", func(t *testing.T) {
		target, _, pub := setup(t)

		err := target.Apply([]byte(`{not json`))
		require.NoError(t, err)
		require.Empty(t, pub.published)
	})
	t.Run("empty message list is a no-op", func(t *testing.T) {
		target, _, _ := setup(t)

		err := target.Apply([]byte(`{"msgs":[]}`))
		require.NoError(t, err)
	})
	t.Run("nil publisher skips events", func(t *testing.T) {
		store, err := mem.NewProvider().OpenStore(datastore.LedgerC)
		require.NoError(t, err)

		target := NewLedger(store, nil)
		require.NoError(t, target.Apply(createDIDTx("did:x:1", "addrA")))

		_, err = store.GetDIDDocument("did:x:1")
		require.NoError(t, err)
	})
}
