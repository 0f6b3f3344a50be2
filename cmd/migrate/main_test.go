package main

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/padraicbc/raceprogram/models"
	"github.com/padraicbc/raceprogram/program"
)

func TestSlotCheckInspect(t *testing.T) {
	var programID, other, key program.Pubkey
	programID[0], other[0], key[0] = 1, 2, 3

	check := &slotCheck{programID: programID, slotSize: program.MaxRecordSize(2, 8), log: zaptest.NewLogger(t)}

	full := make([]byte, check.slotSize)
	require.NoError(t, (&program.RaceRecord{Name: "ok"}).Store(full))
	require.NoError(t, check.inspect(&models.Account{Key: key.String(), Owner: programID.String(), Data: full}))
	require.Zero(t, check.undersized)
	require.Zero(t, check.undecodable)

	require.NoError(t, check.inspect(&models.Account{Key: key.String(), Owner: programID.String(), Data: []byte{1}}))
	require.Equal(t, 1, check.undersized)
	require.Equal(t, 1, check.undecodable)

	// Foreign accounts are copied without inspection.
	require.NoError(t, check.inspect(&models.Account{Key: key.String(), Owner: other.String(), Data: []byte{1}}))
	require.Equal(t, 1, check.undersized)

	require.Error(t, check.inspect(&models.Account{Key: "bad key!", Owner: programID.String()}))
}
