/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package message

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyEnvelope(t *testing.T) {
	t.Run("standard tx.body.messages shape", func(t *testing.T) {
		body := `{"tx":{"body":{"messages":[{"@type":"/persona.did.v1.MsgCreateDid","did_document":"{\"id\":\"did:x:1\",\"controller\":\"addrA\"}"}]}}}`

		msg, err := Classify([]byte(body))
		require.NoError(t, err)

		created, ok := msg.(*CreateDID)
		require.True(t, ok)
		require.Equal(t, "did:x:1", created.Document.ID)
		require.Equal(t, "addrA", created.Document.Controller)
	})
	t.Run("legacy flat msgs shape", func(t *testing.T) {
		body := `{"msgs":[{"@type":"/persona.did.v1.MsgCreateDid","did_document":{"id":"did:x:2","controller":"addrB"}}]}`

		msg, err := Classify([]byte(body))
		require.NoError(t, err)

		created, ok := msg.(*CreateDID)
		require.True(t, ok)
		require.Equal(t, "did:x:2", created.Document.ID)
	})
	t.Run("only the first message is classified", func(t *testing.T) {
		body := `{"msgs":[
			{"@type":"/persona.did.v1.MsgCreateDid","did_document":{"id":"did:x:1","controller":"addrA"}},
			{"@type":"/persona.did.v1.MsgCreateDid","did_document":{"id":"did:x:2","controller":"addrB"}}]}`

		msg, err := Classify([]byte(body))
		require.NoError(t, err)

		created, ok := msg.(*CreateDID)
		require.True(t, ok)
		require.Equal(t, "did:x:1", created.Document.ID)
	})
	t.Run("no-ops", func(t *testing.T) {
		bodies := map[string]string{
			"undecodable body":  `{not json`,
			"no message list":   `{"tx":{"body":{}}}`,
			"empty list":        `{"msgs":[]}`,
			"non-object entry":  `{"msgs":["nope"]}`,
			"missing type":      `{"msgs":[{"did_document":{}}]}`,
			"non-string type":   `{"msgs":[{"@type":7}]}`,
			"messages not list": `{"tx":{"body":{"messages":"nope"}}}`,
		}

		for name, body := range bodies {
			t.Run(name, func(t *testing.T) {
				msg, err := Classify([]byte(body))
				require.NoError(t, err)
				require.Nil(t, msg)
			})
		}
	})
	t.Run("unrecognized type", func(t *testing.T) {
		body := `{"msgs":[{"@type":"/persona.did.v1.MsgDeactivateDid"}]}`

		msg, err := Classify([]byte(body))
		require.NoError(t, err)

		unknown, ok := msg.(*Unknown)
		require.True(t, ok)
		require.Equal(t, "/persona.did.v1.MsgDeactivateDid", unknown.TypeURL)
	})
}

func TestClassifyCreateDID(t *testing.T) {
	t.Run("string encoded document", func(t *testing.T) {
		body := `{"msgs":[{"@type":"/persona.did.v1.MsgCreateDid","did_document":"{\"id\":\"did:x:1\",\"controller\":\"addrA\"}"}]}`

		msg, err := Classify([]byte(body))
		require.NoError(t, err)
		require.IsType(t, &CreateDID{}, msg)
	})
	t.Run("unparseable document string", func(t *testing.T) {
		body := `{"msgs":[{"@type":"/persona.did.v1.MsgCreateDid","did_document":"{broken"}]}`

		msg, err := Classify([]byte(body))
		require.Nil(t, msg)

		verr, ok := err.(*ValidationError)
		require.True(t, ok)
		require.Equal(t, TypeCreateDID, verr.TypeURL)
	})
	t.Run("missing document", func(t *testing.T) {
		body := `{"msgs":[{"@type":"/persona.did.v1.MsgCreateDid","creator":"addrA"}]}`

		msg, err := Classify([]byte(body))
		require.Nil(t, msg)
		require.Error(t, err)
	})
	t.Run("document missing controller", func(t *testing.T) {
		body := `{"msgs":[{"@type":"/persona.did.v1.MsgCreateDid","did_document":{"id":"did:x:1"}}]}`

		msg, err := Classify([]byte(body))
		require.Nil(t, msg)

		verr, ok := err.(*ValidationError)
		require.True(t, ok)
		require.Equal(t, "did:x:1", verr.Found["id"])
	})
}

func TestClassifyIssueCredential(t *testing.T) {
	t.Run("valid message", func(t *testing.T) {
		body := `{"msgs":[{"@type":"/persona.vc.v1.MsgIssueCredential","creator":"addrB","vc_data":"{\"name\":\"degree\"}"}]}`

		msg, err := Classify([]byte(body))
		require.NoError(t, err)

		issue, ok := msg.(*IssueCredential)
		require.True(t, ok)
		require.Equal(t, "addrB", issue.Controller)
		require.Equal(t, "degree", issue.Claims["name"])
	})
	t.Run("missing creator", func(t *testing.T) {
		body := `{"msgs":[{"@type":"/persona.vc.v1.MsgIssueCredential","vc_data":"{}"}]}`

		msg, err := Classify([]byte(body))
		require.Nil(t, msg)
		require.Error(t, err)
	})
	t.Run("missing vc_data", func(t *testing.T) {
		body := `{"msgs":[{"@type":"/persona.vc.v1.MsgIssueCredential","creator":"addrB"}]}`

		msg, err := Classify([]byte(body))
		require.Nil(t, msg)
		require.Error(t, err)
	})
	t.Run("unparseable vc_data", func(t *testing.T) {
		body := `{"msgs":[{"@type":"/persona.vc.v1.MsgIssueCredential","creator":"addrB","vc_data":"{broken"}]}`

		msg, err := Classify([]byte(body))
		require.Nil(t, msg)

		verr, ok := err.(*ValidationError)
		require.True(t, ok)
		require.Equal(t, "addrB", verr.Found["creator"])
	})
}

func TestClassifySubmitProof(t *testing.T) {
	t.Run("creator and proof synonyms", func(t *testing.T) {
		body := `{"msgs":[{"@type":"/persona.zk.v1.MsgSubmitProof","creator":"addrC","proof":"0xabc","circuit_id":"circ1"}]}`

		msg, err := Classify([]byte(body))
		require.NoError(t, err)

		submit, ok := msg.(*SubmitProof)
		require.True(t, ok)
		require.Equal(t, "addrC", submit.Prover)
		require.Equal(t, "0xabc", submit.ProofData)
		require.Equal(t, "circ1", submit.CircuitID)
	})
	t.Run("prover and proof_data synonyms", func(t *testing.T) {
		body := `{"msgs":[{"@type":"/persona.zk.v1.MsgSubmitProof","prover":"addrC","proof_data":"0xdef","circuit_id":"circ1"}]}`

		msg, err := Classify([]byte(body))
		require.NoError(t, err)

		submit, ok := msg.(*SubmitProof)
		require.True(t, ok)
		require.Equal(t, "addrC", submit.Prover)
		require.Equal(t, "0xdef", submit.ProofData)
	})
	t.Run("public inputs and metadata pass through", func(t *testing.T) {
		body := `{"msgs":[{"@type":"/persona.zk.v1.MsgSubmitProof","creator":"addrC","proof":"0xabc","circuit_id":"circ1","public_inputs":["1","2"],"metadata":{"k":"v"}}]}`

		msg, err := Classify([]byte(body))
		require.NoError(t, err)

		submit := msg.(*SubmitProof)
		require.Equal(t, []interface{}{"1", "2"}, submit.PublicInputs)
		require.Equal(t, map[string]interface{}{"k": "v"}, submit.Metadata)
	})
	t.Run("missing circuit_id reports found values", func(t *testing.T) {
		body := `{"msgs":[{"@type":"/persona.zk.v1.MsgSubmitProof","creator":"addrC","proof":"0xabc"}]}`

		msg, err := Classify([]byte(body))
		require.Nil(t, msg)

		verr, ok := err.(*ValidationError)
		require.True(t, ok)
		require.Equal(t, "addrC", verr.Found["prover"])
		require.Equal(t, "0xabc", verr.Found["proof_data"])
		require.Equal(t, "", verr.Found["circuit_id"])
	})
}
