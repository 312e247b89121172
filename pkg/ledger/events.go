/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

const (
	QueueName = "persona-ledger-events"

	DIDTopic        = "did_documents"
	CredentialTopic = "credentials"
	ProofTopic      = "proofs"

	CreatedEvent   = "created"
	IssuedEvent    = "issued"
	SubmittedEvent = "submitted"
)

// Notification is published for every successful registry mutation.
type Notification struct {
	Topic     string      `json:"topic"`
	Event     string      `json:"event"`
	EventData interface{} `json:"message"`
}
