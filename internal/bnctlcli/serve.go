package bnctlcli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arborbayes/bnkit/substitution"
)

// request/response mirror spec.md §6's wire format verbatim: newline-
// delimited text-JSON, {Command, Auth?, Job?, Params?} in,
// {Job?, Result?, Status?, Cancel?} out.
type request struct {
	Command string          `json:"Command"`
	Auth    string          `json:"Auth,omitempty"`
	Job     int             `json:"Job,omitempty"`
	Params  json.RawMessage `json:"Params,omitempty"`
}

type response struct {
	Job    int         `json:"Job,omitempty"`
	Result interface{} `json:"Result,omitempty"`
	Status string      `json:"Status,omitempty"`
	Cancel bool        `json:"Cancel,omitempty"`
}

// jobStatus mirrors spec.md §5's job states.
type jobStatus string

const (
	statusQueued    jobStatus = "Queued"
	statusRunning   jobStatus = "Running"
	statusComplete  jobStatus = "Complete"
	statusCancelled jobStatus = "Cancelled"
	statusFailed    jobStatus = "Failed"
)

type job struct {
	mu     sync.Mutex
	status jobStatus
	result *substitution.Result
	err    error
	cancel context.CancelFunc
}

// server holds the Recon job table a serve session keeps across requests.
// Jobs never escape the process; the RPC façade is the one consumer of the
// core across a long-lived connection, matching spec.md §5's "one worker per
// job in an external queue" scheduling model.
type server struct {
	log *zap.SugaredLogger
	mu  sync.Mutex
	jobs map[int]*job
	next int
}

func newServer(log *zap.SugaredLogger) *server {
	return &server{log: log, jobs: make(map[int]*job)}
}

type reconParams struct {
	Tree         json.RawMessage `json:"Tree"`
	Alignment    json.RawMessage `json:"Alignment"`
	Model        string          `json:"Model"`
	Mode         string          `json:"Mode"`
	MarginalNode string          `json:"MarginalNode"`
	IncludeGap   bool            `json:"IncludeGap"`
}

func (s *server) handleRecon(params json.RawMessage) response {
	var p reconParams
	if err := json.Unmarshal(params, &p); err != nil {
		return response{Status: string(statusFailed), Result: err.Error()}
	}
	var tf treeFile
	if err := json.Unmarshal(p.Tree, &tf); err != nil {
		return response{Status: string(statusFailed), Result: err.Error()}
	}
	tree := &substitution.PhyloTree{Root: tf.toNode()}
	if err := tree.Validate(); err != nil {
		return response{Status: string(statusFailed), Result: err.Error()}
	}
	var seqs map[string][]string
	if err := json.Unmarshal(p.Alignment, &seqs); err != nil {
		return response{Status: string(statusFailed), Result: err.Error()}
	}
	alignment, err := substitution.NewAlignment(seqs)
	if err != nil {
		return response{Status: string(statusFailed), Result: err.Error()}
	}

	opts := []substitution.Option{}
	if p.Mode == "marginal" {
		opts = append(opts, substitution.WithMarginalNode(p.MarginalNode))
	}
	if p.IncludeGap {
		opts = append(opts, substitution.WithGapPolicy(substitution.GapAsModel))
	}

	ctx, cancel := context.WithCancel(context.Background())
	j := &job{status: statusQueued, cancel: cancel}
	s.mu.Lock()
	s.next++
	id := s.next
	s.jobs[id] = j
	s.mu.Unlock()

	go func() {
		j.mu.Lock()
		j.status = statusRunning
		j.mu.Unlock()
		res, err := substitution.Reconstruct(ctx, tree, alignment, p.Model, opts...)
		j.mu.Lock()
		defer j.mu.Unlock()
		if err != nil {
			if ctx.Err() != nil {
				j.status = statusCancelled
			} else {
				j.status = statusFailed
				j.err = err
			}
			return
		}
		j.status = statusComplete
		j.result = res
	}()

	return response{Job: id, Status: string(statusQueued)}
}

func (s *server) lookup(id int) (*job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	return j, ok
}

func (s *server) handleStatus(id int) response {
	j, ok := s.lookup(id)
	if !ok {
		return response{Job: id, Status: string(statusFailed), Result: "unknown job"}
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return response{Job: id, Status: string(j.status)}
}

func (s *server) handleCancel(id int) response {
	j, ok := s.lookup(id)
	if !ok {
		return response{Job: id, Status: string(statusFailed), Result: "unknown job"}
	}
	j.cancel()
	return response{Job: id, Cancel: true}
}

func (s *server) handleOutput(id int) response {
	j, ok := s.lookup(id)
	if !ok {
		return response{Job: id, Status: string(statusFailed), Result: "unknown job"}
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != statusComplete {
		return response{Job: id, Status: string(j.status)}
	}
	return response{Job: id, Status: string(j.status), Result: j.result}
}

// dispatch resolves one request into a response. Pogit/Place/Fake are
// accepted so a generic client's protocol round-trips, but name sibling
// engines this core does not implement.
func (s *server) dispatch(req request) response {
	switch req.Command {
	case "Recon":
		return s.handleRecon(req.Params)
	case "Status":
		return s.handleStatus(req.Job)
	case "Cancel":
		return s.handleCancel(req.Job)
	case "Output":
		return s.handleOutput(req.Job)
	case "Pogit", "Place", "Fake":
		return response{Job: req.Job, Status: string(statusFailed), Result: fmt.Sprintf("command %q is not implemented by this engine", req.Command)}
	default:
		return response{Job: req.Job, Status: string(statusFailed), Result: fmt.Sprintf("unknown command %q", req.Command)}
	}
}

func newServeCommand(log *zap.SugaredLogger, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the newline-delimited-JSON RPC façade over stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(*configPath); err != nil {
				return withExitCode(ExitIOFailure, err)
			}
			s := newServer(log)
			in := bufio.NewScanner(cmd.InOrStdin())
			in.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			for in.Scan() {
				line := in.Bytes()
				if len(line) == 0 {
					continue
				}
				var req request
				if err := json.Unmarshal(line, &req); err != nil {
					if encErr := enc.Encode(response{Status: string(statusFailed), Result: err.Error()}); encErr != nil {
						return withExitCode(ExitIOFailure, encErr)
					}
					continue
				}
				resp := s.dispatch(req)
				if err := enc.Encode(resp); err != nil {
					return withExitCode(ExitIOFailure, err)
				}
			}
			if err := in.Err(); err != nil {
				return withExitCode(ExitIOFailure, err)
			}
			return nil
		},
	}
}
