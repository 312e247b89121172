/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/rs/cors"
	goji "goji.io"
	"goji.io/pat"

	"github.com/scoir/persona/pkg/amqp"
	"github.com/scoir/persona/pkg/datastore"
	"github.com/scoir/persona/pkg/framework"
	"github.com/scoir/persona/pkg/util"
)

// Server exposes the mock persona ledger over HTTP: the broadcast endpoint,
// the registry query surface and the simulated chain status endpoints.
type Server struct {
	addr   string
	store  datastore.Store
	ledger *Ledger
	chain  *chainState
}

type provider interface {
	GetHTTPEndpoint() (*framework.Endpoint, error)
	GetDatastore() datastore.Store
	GetChainConfig() *framework.ChainConfig
	GetAMQPPublisher(queue string) amqp.Publisher
}

type chainState struct {
	sync.Mutex
	chainID    string
	nodeInfo   nodeInfo
	height     int64
	latestTime string
}

type nodeInfo struct {
	ID      string `json:"id"`
	Moniker string `json:"moniker"`
	Version string `json:"version"`
}

type pagination struct {
	NextKey interface{} `json:"next_key"`
	Total   string      `json:"total"`
}

func New(ctx provider) (*Server, error) {
	ep, err := ctx.GetHTTPEndpoint()
	if err != nil {
		return nil, err
	}

	store := ctx.GetDatastore()
	chain := ctx.GetChainConfig()

	srv := &Server{
		addr:   ep.Address(),
		store:  store,
		ledger: NewLedger(store, ctx.GetAMQPPublisher(QueueName)),
		chain: &chainState{
			chainID: chain.ID,
			nodeInfo: nodeInfo{
				ID:      chain.NodeID,
				Moniker: chain.Moniker,
				Version: chain.Version,
			},
			height:     1000,
			latestTime: time.Now().Format(time.RFC3339),
		},
	}

	return srv, nil
}

// Handler builds the routing mux. CORS is wide open so the demo dashboard
// can call the ledger from any origin.
func (r *Server) Handler() http.Handler {
	mux := goji.NewMux()
	mux.Use(CorsHandler())

	mux.Handle(pat.Post("/cosmos/tx/v1beta1/txs"), http.HandlerFunc(r.broadcastTx))
	mux.Handle(pat.Get("/cosmos/bank/v1beta1/balances/:address"), http.HandlerFunc(r.accountBalance))

	mux.Handle(pat.Get("/persona/did/v1beta1/did_documents"), http.HandlerFunc(r.listDIDDocuments))
	mux.Handle(pat.Get("/persona/did/v1beta1/did_documents/:id"), http.HandlerFunc(r.getDIDDocument))
	mux.Handle(pat.Get("/persona/did/v1beta1/did_by_controller/:controller"), http.HandlerFunc(r.getDIDByController))

	mux.Handle(pat.Get("/persona/vc/v1beta1/credentials"), http.HandlerFunc(r.listCredentials))
	mux.Handle(pat.Get("/persona/vc/v1beta1/credentials_by_controller/:controller"), http.HandlerFunc(r.credentialsByController))

	mux.Handle(pat.Get("/persona/zk/v1beta1/proofs"), http.HandlerFunc(r.listProofs))
	mux.Handle(pat.Get("/persona/zk/v1beta1/proofs_by_controller/:controller"), http.HandlerFunc(r.proofsByController))
	mux.Handle(pat.Get("/persona/zk/v1beta1/circuits"), http.HandlerFunc(r.listCircuits))

	mux.Handle(pat.Post("/api/getRequirements"), http.HandlerFunc(r.getRequirements))
	mux.Handle(pat.Get("/api/getVc"), http.HandlerFunc(r.getVC))

	mux.Handle(pat.Get("/status"), http.HandlerFunc(r.status))
	mux.Handle(pat.Get("/node_info"), http.HandlerFunc(r.getNodeInfo))
	mux.Handle(pat.Get("/health"), http.HandlerFunc(r.health))

	return mux
}

func (r *Server) Start() error {
	log.Println("persona mock ledger listening on", r.addr)
	return http.ListenAndServe(r.addr, r.Handler())
}

// broadcastTx accepts an envelope-wrapped transaction and always reports a
// successful receipt. Malformed bodies and validation failures are logged
// and dropped; callers must re-query state to observe the difference.
func (r *Server) broadcastTx(w http.ResponseWriter, req *http.Request) {
	body, err := ioutil.ReadAll(req.Body)
	if err == nil {
		err = r.ledger.Apply(body)
		if err != nil {
			log.Println("dropping transaction message:", err)
		}
	}

	receipt := &datastore.TxReceipt{
		TxHash: fmt.Sprintf("0x%064d", time.Now().Unix()),
		Height: r.chain.currentHeight(),
		Code:   0,
		Data:   "",
	}

	r.writeJSON(w, receipt)
}

func (r *Server) listDIDDocuments(w http.ResponseWriter, _ *http.Request) {
	docs := demoDIDDocuments()

	created, err := r.store.ListDIDDocuments()
	if err != nil {
		util.WriteError(w, err.Error())
		return
	}
	docs = append(docs, created...)

	log.Printf("returning %d DIDs (including %d created)", len(docs), len(created))
	r.writeJSON(w, map[string]interface{}{
		"did_documents": docs,
		"pagination":    pagination{Total: fmt.Sprintf("%d", len(docs))},
	})
}

func (r *Server) getDIDDocument(w http.ResponseWriter, req *http.Request) {
	id := pat.Param(req, "id")

	doc, err := r.store.GetDIDDocument(id)
	if err != nil {
		log.Printf("no DID document with id %s", id)
		r.writeJSON(w, map[string]interface{}{"did_document": nil})
		return
	}

	r.writeJSON(w, map[string]interface{}{"did_document": doc})
}

func (r *Server) getDIDByController(w http.ResponseWriter, req *http.Request) {
	controller := pat.Param(req, "controller")

	doc, err := r.store.GetDIDDocumentByController(controller)
	if err != nil {
		log.Printf("no DID found for controller %s", controller)
		r.writeJSON(w, map[string]interface{}{"did_document": nil})
		return
	}

	log.Printf("found DID for controller %s: %s", controller, doc.ID)
	r.writeJSON(w, map[string]interface{}{"did_document": doc})
}

func (r *Server) listCredentials(w http.ResponseWriter, _ *http.Request) {
	records := demoCredentials()

	created, err := r.store.ListAllCredentials()
	if err != nil {
		util.WriteError(w, err.Error())
		return
	}
	records = append(records, created...)

	r.writeJSON(w, map[string]interface{}{
		"vc_records": records,
		"pagination": pagination{Total: fmt.Sprintf("%d", len(records))},
	})
}

func (r *Server) credentialsByController(w http.ResponseWriter, req *http.Request) {
	controller := pat.Param(req, "controller")

	records, err := r.store.ListCredentials(controller)
	if err != nil {
		util.WriteError(w, err.Error())
		return
	}

	log.Printf("returning %d credentials for controller %s", len(records), controller)
	r.writeJSON(w, map[string]interface{}{
		"vc_records": records,
		"pagination": pagination{Total: fmt.Sprintf("%d", len(records))},
	})
}

func (r *Server) listProofs(w http.ResponseWriter, _ *http.Request) {
	proofs := demoProofs()

	created, err := r.store.ListAllProofs()
	if err != nil {
		util.WriteError(w, err.Error())
		return
	}
	proofs = append(proofs, created...)

	r.writeJSON(w, map[string]interface{}{
		"zk_proofs":  proofs,
		"pagination": pagination{Total: fmt.Sprintf("%d", len(proofs))},
	})
}

func (r *Server) proofsByController(w http.ResponseWriter, req *http.Request) {
	controller := pat.Param(req, "controller")

	proofs, err := r.store.ListProofs(controller)
	if err != nil {
		util.WriteError(w, err.Error())
		return
	}

	log.Printf("returning %d proofs for controller %s", len(proofs), controller)
	r.writeJSON(w, map[string]interface{}{
		"zk_proofs":  proofs,
		"pagination": pagination{Total: fmt.Sprintf("%d", len(proofs))},
	})
}

func (r *Server) listCircuits(w http.ResponseWriter, _ *http.Request) {
	circuits := demoCircuits()

	r.writeJSON(w, map[string]interface{}{
		"circuits":   circuits,
		"pagination": pagination{Total: fmt.Sprintf("%d", len(circuits))},
	})
}

// accountBalance ignores the address and reports the same mock balance for
// every account.
func (r *Server) accountBalance(w http.ResponseWriter, req *http.Request) {
	_ = pat.Param(req, "address")

	r.writeJSON(w, map[string]interface{}{
		"balances": []map[string]string{
			{"denom": "uprsn", "amount": "1000000000"},
		},
		"pagination": pagination{Total: "1"},
	})
}

// status advances the simulated block height on every call.
func (r *Server) status(w http.ResponseWriter, _ *http.Request) {
	height, latestTime := r.chain.advance()

	r.writeJSON(w, map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"result": map[string]interface{}{
			"node_info": r.chain.nodeInfo,
			"sync_info": map[string]interface{}{
				"latest_block_hash":   "0x" + fmt.Sprintf("%064d", height),
				"latest_block_height": fmt.Sprintf("%d", height),
				"latest_block_time":   latestTime,
				"catching_up":         false,
			},
		},
	})
}

func (r *Server) getNodeInfo(w http.ResponseWriter, _ *http.Request) {
	r.writeJSON(w, r.chain.nodeInfo)
}

func (r *Server) health(w http.ResponseWriter, _ *http.Request) {
	r.writeJSON(w, map[string]interface{}{
		"status":    "healthy",
		"chain_id":  r.chain.chainID,
		"height":    r.chain.currentHeight(),
		"timestamp": time.Now().Unix(),
	})
}

func (r *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	d, err := json.Marshal(v)
	if err != nil {
		util.WriteErrorf(w, "unexpected marshal error: %v", err)
		return
	}

	util.WriteSuccess(w, d)
}

func (r *chainState) advance() (int64, string) {
	r.Lock()
	defer r.Unlock()

	r.height++
	r.latestTime = time.Now().Format(time.RFC3339)

	return r.height, r.latestTime
}

func (r *chainState) currentHeight() int64 {
	r.Lock()
	defer r.Unlock()

	return r.height
}

func CorsHandler() func(h http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "PUT", "PATCH", "POST", "DELETE"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "Content-Length",
			"Accept-Encoding", "X-CSRF-Token", "Authorization", "Cache-Control", "Pragma"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type", "Cache-Control", "Last-Modified"},
		AllowCredentials: true,
	})
	return c.Handler
}
