/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package message

import (
	"encoding/json"
	"fmt"
)

const (
	TypeCreateDID       = "/persona.did.v1.MsgCreateDid"
	TypeIssueCredential = "/persona.vc.v1.MsgIssueCredential"
	TypeSubmitProof     = "/persona.zk.v1.MsgSubmitProof"
)

// Message is one classified transaction message. Variants are CreateDID,
// IssueCredential, SubmitProof and Unknown.
type Message interface {
	Type() string
}

type CreateDID struct {
	Document Document
}

// Document is the identity document embedded in a MsgCreateDid.
type Document struct {
	ID         string
	Controller string
}

type IssueCredential struct {
	Controller string
	Claims     map[string]interface{}
}

type SubmitProof struct {
	Prover       string
	CircuitID    string
	ProofData    string
	PublicInputs interface{}
	Metadata     interface{}
}

// Unknown carries a type discriminator no handler recognizes.
type Unknown struct {
	TypeURL string
}

func (r *CreateDID) Type() string       { return TypeCreateDID }
func (r *IssueCredential) Type() string { return TypeIssueCredential }
func (r *SubmitProof) Type() string     { return TypeSubmitProof }
func (r *Unknown) Type() string         { return r.TypeURL }

// ValidationError reports a recognized message whose required fields are
// missing or unparseable. Found holds the values that were present, to aid
// debugging.
type ValidationError struct {
	TypeURL string
	Reason  string
	Found   map[string]string
}

func (r *ValidationError) Error() string {
	if len(r.Found) == 0 {
		return fmt.Sprintf("invalid %s message: %s", r.TypeURL, r.Reason)
	}
	return fmt.Sprintf("invalid %s message: %s (found %v)", r.TypeURL, r.Reason, r.Found)
}

// Classify locates the message list in a broadcast transaction body and
// parses the first message into a typed variant. Later messages in a
// multi-message transaction are ignored. A body with no decodable envelope,
// no message list, or no type discriminator classifies to (nil, nil): the
// transaction is a no-op. A recognized type with invalid fields returns a
// *ValidationError.
func Classify(body []byte) (Message, error) {
	var txData map[string]interface{}
	if json.Unmarshal(body, &txData) != nil {
		return nil, nil
	}

	msgs := findMessages(txData)
	if len(msgs) == 0 {
		return nil, nil
	}

	msg, ok := msgs[0].(map[string]interface{})
	if !ok {
		return nil, nil
	}

	typeURL, ok := msg["@type"].(string)
	if !ok {
		return nil, nil
	}

	switch typeURL {
	case TypeCreateDID:
		return parseCreateDID(msg)
	case TypeIssueCredential:
		return parseIssueCredential(msg)
	case TypeSubmitProof:
		return parseSubmitProof(msg)
	}

	return &Unknown{TypeURL: typeURL}, nil
}

// findMessages accepts both the legacy flat shape, a top level "msgs" list,
// and the standard tx.body.messages shape.
func findMessages(txData map[string]interface{}) []interface{} {
	if direct, ok := txData["msgs"].([]interface{}); ok {
		return direct
	}

	tx, ok := txData["tx"].(map[string]interface{})
	if !ok {
		return nil
	}

	body, ok := tx["body"].(map[string]interface{})
	if !ok {
		return nil
	}

	nested, _ := body["messages"].([]interface{})
	return nested
}

func parseCreateDID(msg map[string]interface{}) (Message, error) {
	var didDoc map[string]interface{}

	// did_document arrives either JSON string encoded or as an object
	switch d := msg["did_document"].(type) {
	case string:
		if json.Unmarshal([]byte(d), &didDoc) != nil {
			return nil, &ValidationError{
				TypeURL: TypeCreateDID,
				Reason:  "did_document is not valid JSON",
				Found:   map[string]string{"did_document": d},
			}
		}
	case map[string]interface{}:
		didDoc = d
	default:
		return nil, &ValidationError{
			TypeURL: TypeCreateDID,
			Reason:  "did_document not found or invalid format",
		}
	}

	id, _ := didDoc["id"].(string)
	controller, _ := didDoc["controller"].(string)
	if id == "" || controller == "" {
		return nil, &ValidationError{
			TypeURL: TypeCreateDID,
			Reason:  "did_document requires id and controller",
			Found:   map[string]string{"id": id, "controller": controller},
		}
	}

	return &CreateDID{Document: Document{ID: id, Controller: controller}}, nil
}

func parseIssueCredential(msg map[string]interface{}) (Message, error) {
	creator, _ := msg["creator"].(string)
	if creator == "" {
		return nil, &ValidationError{
			TypeURL: TypeIssueCredential,
			Reason:  "creator is required",
		}
	}

	vcData, _ := msg["vc_data"].(string)
	if vcData == "" {
		return nil, &ValidationError{
			TypeURL: TypeIssueCredential,
			Reason:  "vc_data is required",
			Found:   map[string]string{"creator": creator},
		}
	}

	var claims map[string]interface{}
	if json.Unmarshal([]byte(vcData), &claims) != nil {
		return nil, &ValidationError{
			TypeURL: TypeIssueCredential,
			Reason:  "vc_data is not valid JSON",
			Found:   map[string]string{"creator": creator, "vc_data": vcData},
		}
	}

	return &IssueCredential{Controller: creator, Claims: claims}, nil
}

func parseSubmitProof(msg map[string]interface{}) (Message, error) {
	var prover string
	if creator, ok := msg["creator"].(string); ok {
		prover = creator
	} else if p, ok := msg["prover"].(string); ok {
		prover = p
	}

	var proofData string
	if proof, ok := msg["proof"].(string); ok {
		proofData = proof
	} else if pd, ok := msg["proof_data"].(string); ok {
		proofData = pd
	}

	circuitID, _ := msg["circuit_id"].(string)

	if prover == "" || proofData == "" || circuitID == "" {
		return nil, &ValidationError{
			TypeURL: TypeSubmitProof,
			Reason:  "prover, proof and circuit_id are required",
			Found: map[string]string{
				"prover":     prover,
				"proof_data": proofData,
				"circuit_id": circuitID,
			},
		}
	}

	return &SubmitProof{
		Prover:       prover,
		CircuitID:    circuitID,
		ProofData:    proofData,
		PublicInputs: msg["public_inputs"],
		Metadata:     msg["metadata"],
	}, nil
}
