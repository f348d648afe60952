package sdk

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Env is the execution environment of a single call: who sent it, when the
// block containing it was produced, and the transaction id.
type Env struct {
	TxId        string `json:"tx.id"`
	BlockHeight uint64 `json:"block.height"`
	Timestamp   string `json:"block.timestamp"`
	Sender      Sender `json:"sender"`
}

type Sender struct {
	Address Address `json:"id"`
}

// NewEnv builds an environment for sender at the given block time with a fresh tx id.
func NewEnv(sender Address, at time.Time) Env {
	return Env{
		TxId:      uuid.NewString(),
		Timestamp: strconv.FormatInt(at.Unix(), 10),
		Sender:    Sender{Address: sender},
	}
}

// At returns a copy of the env moved to another block time, keeping the sender.
func (e Env) At(at time.Time) Env {
	e.TxId = uuid.NewString()
	e.Timestamp = strconv.FormatInt(at.Unix(), 10)
	return e
}

// As returns a copy of the env sent by another address.
func (e Env) As(sender Address) Env {
	e.TxId = uuid.NewString()
	e.Sender = Sender{Address: sender}
	return e
}

// Unix returns the block timestamp in seconds. ok is false when the
// timestamp is missing or in none of the accepted formats.
func (e Env) Unix() (int64, bool) {
	if e.Timestamp == "" {
		return 0, false
	}
	return parseTimestamp(e.Timestamp)
}

// parseTimestamp accepts unix seconds or iso-ish strings since hosts flip formats sometimes.
func parseTimestamp(val string) (int64, bool) {
	if v, err := strconv.ParseInt(val, 10, 64); err == nil {
		return v, true
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t.Unix(), true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", val, time.UTC); err == nil {
		return t.Unix(), true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05.000", val, time.UTC); err == nil {
		return t.Unix(), true
	}
	return 0, false
}
