// Package server exposes a network over HTTP for prediction and online
// training.
package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"xornet/nn"
)

// HTTPServer serialises every request through one network.
type HTTPServer struct {
	Router *gin.Engine
	Port   string

	mu      sync.Mutex
	net     *nn.Network
	modelID string
	passes  int
}

// NewHTTPServer serves net on port. An empty modelID gets a fresh one.
func NewHTTPServer(net *nn.Network, modelID, port string) *HTTPServer {
	if modelID == "" {
		modelID = uuid.NewString()
	}
	hs := &HTTPServer{
		Router:  gin.Default(),
		Port:    port,
		net:     net,
		modelID: modelID,
	}
	hs.Router.GET("/status", hs.status)
	hs.Router.POST("/predict", hs.predict)
	hs.Router.POST("/train", hs.train)
	return hs
}

// Start blocks serving on Port.
func (hs *HTTPServer) Start() error {
	fmt.Printf("Serving model %s on port %s\n", hs.modelID, hs.Port)
	return hs.Router.Run(":" + hs.Port)
}

// Status is the body of GET /status.
type Status struct {
	ModelID             string  `json:"model_id"`
	Topology            []int   `json:"topology"`
	Passes              int     `json:"passes"`
	RunningAverageError float64 `json:"running_average_error"`
}

// PredictRequest is the body of POST /predict.
type PredictRequest struct {
	Inputs []float64 `json:"inputs" binding:"required"`
}

// PredictResponse carries the output layer values.
type PredictResponse struct {
	Outputs []float64 `json:"outputs"`
}

// TrainRequest is the body of POST /train. One request is one training pass.
type TrainRequest struct {
	Inputs  []float64 `json:"inputs" binding:"required"`
	Targets []float64 `json:"targets" binding:"required"`
}

// TrainResponse reports the network state after the pass.
type TrainResponse struct {
	Outputs             []float64 `json:"outputs"`
	Error               float64   `json:"error"`
	RunningAverageError float64   `json:"running_average_error"`
	Passes              int       `json:"passes"`
}

func (hs *HTTPServer) status(c *gin.Context) {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	c.JSON(http.StatusOK, Status{
		ModelID:             hs.modelID,
		Topology:            hs.net.Topology(),
		Passes:              hs.passes,
		RunningAverageError: hs.net.RunningAverageError(),
	})
}

func (hs *HTTPServer) predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hs.mu.Lock()
	defer hs.mu.Unlock()
	if err := hs.net.FeedForward(req.Inputs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, PredictResponse{Outputs: hs.net.Results()})
}

func (hs *HTTPServer) train(c *gin.Context) {
	var req TrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hs.mu.Lock()
	defer hs.mu.Unlock()
	// Check the targets first so a bad request leaves the activations alone.
	topology := hs.net.Topology()
	if want := topology[len(topology)-1]; len(req.Targets) != want {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("got %d targets, want %d", len(req.Targets), want)})
		return
	}
	if err := hs.net.FeedForward(req.Inputs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	outputs := hs.net.Results()
	if err := hs.net.BackProp(req.Targets); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hs.passes++
	c.JSON(http.StatusOK, TrainResponse{
		Outputs:             outputs,
		Error:               hs.net.CurrentError(),
		RunningAverageError: hs.net.RunningAverageError(),
		Passes:              hs.passes,
	})
}
