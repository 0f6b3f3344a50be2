package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/raceprogram/program"
)

type invokeRequest struct {
	Account program.Pubkey `json:"account"`
	Data    []byte         `json:"data"`
}

type playerJSON struct {
	Address program.Pubkey `json:"address"`
	Slot    uint8          `json:"slot"`
}

type raceJSON struct {
	Account   program.Pubkey `json:"account"`
	Status    uint8          `json:"status"`
	Level     uint8          `json:"level"`
	Type      uint8          `json:"type"`
	Date      uint64         `json:"date"`
	Name      string         `json:"name"`
	Location  string         `json:"location"`
	Distance  uint16         `json:"distance"`
	EntryFee  uint16         `json:"entryFee"`
	PrizePool uint16         `json:"prizePool"`
	GameURL   string         `json:"gameUrl"`
	EndDate   uint64         `json:"endDate"`
	Players   []playerJSON   `json:"players"`
}

type rosterJSON struct {
	Initialized bool         `json:"initialized"`
	Players     []playerJSON `json:"players"`
}

func playersJSON(r program.Roster) []playerJSON {
	if !r.Present() {
		return nil
	}
	out := make([]playerJSON, 0, r.Len())
	for _, p := range r.Players() {
		out = append(out, playerJSON{Address: p.Address, Slot: p.Slot})
	}
	return out
}

func newRaceJSON(key program.Pubkey, r *program.RaceRecord) raceJSON {
	return raceJSON{
		Account:   key,
		Status:    r.Status,
		Level:     r.Level,
		Type:      r.Kind,
		Date:      r.Date,
		Name:      r.Name,
		Location:  r.Location,
		Distance:  r.Distance,
		EntryFee:  r.EntryFee,
		PrizePool: r.PrizePool,
		GameURL:   r.GameURL,
		EndDate:   r.EndDate,
		Players:   playersJSON(r.Players),
	}
}

// Invoke runs one race program instruction against one account and returns
// the updated race.
func (h *Handler) Invoke(c echo.Context) error {
	var req invokeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	in, err := program.DecodeInstruction(req.Data)
	if err != nil {
		return programError(err)
	}

	var updated *program.RaceRecord
	err = h.accounts.Invoke(c.Request().Context(), req.Account, func(acc *program.AccountInfo) error {
		if err := h.processor.Process([]*program.AccountInfo{acc}, req.Data); err != nil {
			return err
		}
		record, err := program.DecodeRecord(acc.Data)
		if err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		h.log.Info("invoke failed",
			zap.Stringer("account", req.Account), zap.Stringer("instruction", in), zap.Error(err))
		return programError(err)
	}

	return c.JSON(http.StatusOK, newRaceJSON(req.Account, updated))
}

// GetRace returns the decoded race stored in an account.
func (h *Handler) GetRace(c echo.Context) error {
	key, record, err := h.loadRace(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newRaceJSON(key, record))
}

// GetPlayers returns the roster of a race in join order.
func (h *Handler) GetPlayers(c echo.Context) error {
	_, record, err := h.loadRace(c)
	if err != nil {
		return err
	}
	players := playersJSON(record.Players)
	if players == nil {
		players = []playerJSON{}
	}
	return c.JSON(http.StatusOK, rosterJSON{Initialized: record.Players.Present(), Players: players})
}

func (h *Handler) loadRace(c echo.Context) (program.Pubkey, *program.RaceRecord, error) {
	key, err := program.ParsePubkey(c.Param("key"))
	if err != nil {
		return key, nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	acc, err := h.accounts.Get(c.Request().Context(), key)
	if err != nil {
		return key, nil, programError(err)
	}
	// Foreign accounts are never decoded.
	if acc.Owner != h.processor.ProgramID() {
		return key, nil, programError(program.ErrUnauthorizedOwner)
	}
	record, err := program.DecodeRecord(acc.Data)
	if err != nil {
		return key, nil, programError(err)
	}
	return key, record, nil
}

// programError maps race program errors onto HTTP errors.
func programError(err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, program.ErrMalformedInstruction):
		status = http.StatusBadRequest
	case errors.Is(err, program.ErrMissingAccount):
		status = http.StatusNotFound
	case errors.Is(err, program.ErrUnauthorizedOwner):
		status = http.StatusForbidden
	case errors.Is(err, program.ErrPlayerAlreadyExists), errors.Is(err, program.ErrSlotNotAvailable):
		status = http.StatusConflict
	case errors.Is(err, program.ErrStorageCapacityExceeded):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, program.ErrRecordDecode):
		status = http.StatusUnprocessableEntity
	}

	body := map[string]any{"message": err.Error()}
	if code, ok := program.Code(err); ok {
		body["code"] = code
	}
	return echo.NewHTTPError(status, body)
}
