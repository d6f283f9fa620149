// This file implements the calculator API handlers.
// Implements: prd006-calculator-api R3-R9;
//
//	rel01.0-uc001-independent-calculation; rel01.0-uc002-stack-workflow;
//	rel01.1-uc001-dynamic-log-levels.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/abacus/internal/logging"
	"github.com/mesh-intelligence/abacus/pkg/types"
)

type independentCalcInput struct {
	Arguments []int64 `json:"arguments"`
	Operation string  `json:"operation"`
}

type stackInput struct {
	Arguments []int64 `json:"arguments"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "OK")
}

func (s *Server) handleIndependentCalculate(w http.ResponseWriter, r *http.Request) {
	var in independentCalcInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	n := requestNumber(r)
	log := s.logs.Logger(logging.IndependentLogger)

	rec, err := s.engine.Evaluate(types.FlavorIndependent, in.Operation, in.Arguments)
	if err != nil {
		log.Error(fmt.Sprintf("Server encountered an error ! message: %s", err), "request", n)
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	log.Info(fmt.Sprintf("Performing operation %s. Result is %d",
		rec.Operation, rec.Result), "request", n)
	log.Debug(fmt.Sprintf("Performing operation: %s(%s) = %d",
		rec.Operation, joinInts(rec.Arguments, ","), rec.Result), "request", n)

	s.saveRecord(r.Context(), n, rec)
	writeResult(w, http.StatusOK, rec.Result)
}

func (s *Server) handleStackSize(w http.ResponseWriter, r *http.Request) {
	n := requestNumber(r)
	log := s.logs.Logger(logging.StackLogger)

	size := s.engine.Size()
	log.Info(fmt.Sprintf("Stack size is %d", size), "request", n)
	log.Debug(fmt.Sprintf("Stack content (first == top): [%s]",
		joinInts(s.engine.StackView(), ", ")), "request", n)

	writeResult(w, http.StatusOK, size)
}

func (s *Server) handleStackPush(w http.ResponseWriter, r *http.Request) {
	var in stackInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	n := requestNumber(r)
	log := s.logs.Logger(logging.StackLogger)

	after := s.engine.Push(in.Arguments)
	before := after - len(in.Arguments)

	log.Info(fmt.Sprintf("Adding total of %d argument(s) to the stack | Stack size: %d",
		len(in.Arguments), after), "request", n)
	log.Debug(fmt.Sprintf("Adding arguments: %s | Stack size before %d | stack size after %d",
		joinInts(in.Arguments, ","), before, after), "request", n)

	writeResult(w, http.StatusOK, after)
}

func (s *Server) handleStackOperate(w http.ResponseWriter, r *http.Request) {
	operation := r.URL.Query().Get("operation")
	if operation == "" {
		writeError(w, http.StatusBadRequest, "missing operation parameter")
		return
	}

	n := requestNumber(r)
	log := s.logs.Logger(logging.StackLogger)

	rec, err := s.engine.Evaluate(types.FlavorStack, operation, nil)
	if err != nil {
		log.Error(fmt.Sprintf("Server encountered an error ! message: %s", err), "request", n)
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	log.Info(fmt.Sprintf("Performing operation %s. Result is %d | stack size: %d",
		rec.Operation, rec.Result, s.engine.Size()), "request", n)
	log.Debug(fmt.Sprintf("Performing operation: %s(%s) = %d",
		rec.Operation, joinInts(rec.Arguments, ","), rec.Result), "request", n)

	s.saveRecord(r.Context(), n, rec)
	writeResult(w, http.StatusOK, rec.Result)
}

func (s *Server) handleStackDelete(w http.ResponseWriter, r *http.Request) {
	count, err := strconv.Atoi(r.URL.Query().Get("count"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "count must be an integer")
		return
	}

	n := requestNumber(r)
	log := s.logs.Logger(logging.StackLogger)

	size, err := s.engine.Delete(count)
	if err != nil {
		// The removal line is logged on failure too; the size slot then
		// carries the failure message.
		log.Info(fmt.Sprintf("Removing total %d argument(s) from the stack | Stack size: %s",
			count, err), "request", n)
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	log.Info(fmt.Sprintf("Removing total %d argument(s) from the stack | Stack size: %d",
		count, size), "request", n)
	writeResult(w, http.StatusOK, size)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	n := requestNumber(r)
	q := r.URL.Query()

	if method := q.Get("persistenceMethod"); method != "" {
		s.historyFromStore(w, r, types.Method(method), strings.ToUpper(q.Get("flavor")), n)
		return
	}

	stackLog := s.logs.Logger(logging.StackLogger)
	indepLog := s.logs.Logger(logging.IndependentLogger)

	flavor, _ := types.ParseFlavor(q.Get("flavor"))
	switch flavor {
	case types.FlavorStack:
		history := s.engine.History(types.FlavorStack)
		stackLog.Info(fmt.Sprintf("History: So far total %d stack actions", len(history)), "request", n)
		writeResult(w, http.StatusOK, history)
	case types.FlavorIndependent:
		history := s.engine.History(types.FlavorIndependent)
		indepLog.Info(fmt.Sprintf("History: So far total %d independent actions", len(history)), "request", n)
		writeResult(w, http.StatusOK, history)
	default:
		// Anything else, including no flavor at all, returns the full
		// concatenation.
		history := s.engine.History("")
		stackLog.Info(fmt.Sprintf("History: So far total %d stack actions",
			len(s.engine.History(types.FlavorStack))), "request", n)
		indepLog.Info(fmt.Sprintf("History: So far total %d independent actions",
			len(s.engine.History(types.FlavorIndependent))), "request", n)
		writeResult(w, http.StatusOK, history)
	}
}

// historyFromStore serves history from the named persistence store. An
// unknown method yields an empty list, not an error.
func (s *Server) historyFromStore(w http.ResponseWriter, r *http.Request, method types.Method, flavor string, n uint64) {
	records, err := s.store.History(r.Context(), method, flavor)
	if err != nil {
		if errors.Is(err, types.ErrUnknownMethod) {
			writeResult(w, http.StatusOK, []types.TapeRecord{})
			return
		}
		s.logs.Logger(logging.RequestLogger).Error(
			fmt.Sprintf("reading history from %s failed: %s", method, err), "request", n)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeResult(w, http.StatusOK, records)
}

func (s *Server) handleGetLogLevel(w http.ResponseWriter, r *http.Request) {
	level, err := s.logs.Level(r.URL.Query().Get("logger-name"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, "Logger not found")
		return
	}
	writeJSON(w, http.StatusOK, level)
}

func (s *Server) handleSetLogLevel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	n := requestNumber(r)
	q := r.URL.Query()

	level, err := s.logs.SetLevel(q.Get("logger-name"), q.Get("logger-level"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, "Invalid logger name or level")
		return
	}

	// The middleware skips this route's duration line; it is logged here,
	// after the change, so the line is subject to the new level.
	s.logs.Logger(logging.RequestLogger).Debug(fmt.Sprintf("request #%d duration: %dms",
		n, time.Since(start).Milliseconds()), "request", n)

	writeJSON(w, http.StatusOK, level)
}

// saveRecord persists a successful calculation on the dual tape. Store
// failures never change the HTTP outcome; they are logged and the response
// still carries the result.
func (s *Server) saveRecord(ctx context.Context, n uint64, rec types.Record) {
	if _, err := s.store.Save(ctx, rec); err != nil {
		s.logs.Logger(logging.RequestLogger).Error(
			fmt.Sprintf("saving operation %s failed: %s", rec.Operation, err), "request", n)
	}
}

// joinInts renders operand lists for log lines.
func joinInts(values []int64, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, sep)
}
