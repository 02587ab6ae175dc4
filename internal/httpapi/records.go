package httpapi

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/helpachild/recordbook/pkg/types"
)

// errNoBody reports a missing, unparseable, or empty request body.
var errNoBody = errors.New("no json received")

// parseRecordBody decodes the request body into a record. An absent body,
// invalid JSON, or an empty object all count as "no json received".
func parseRecordBody(c *fiber.Ctx) (types.Record, error) {
	body := c.Body()
	if len(body) == 0 {
		return nil, errNoBody
	}
	var rec types.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, errNoBody
	}
	if len(rec) == 0 {
		return nil, errNoBody
	}
	return rec, nil
}

// createRecord handles POST /upload.
func (s *Server) createRecord(c *fiber.Ctx) error {
	rec, err := parseRecordBody(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	stored, err := s.store.Records().Append(rec)
	if err != nil {
		s.log.Error().Err(err).Msg("append record failed")
		return errorJSON(c, fiber.StatusInternalServerError, "failed to save record")
	}
	return c.JSON(fiber.Map{"ok": true, "data": stored})
}

// listRecords handles GET /records.
func (s *Server) listRecords(c *fiber.Ctx) error {
	records, err := s.store.Records().ReadAll()
	if err != nil {
		s.log.Error().Err(err).Msg("read records failed")
		return errorJSON(c, fiber.StatusInternalServerError, "failed to read records")
	}
	return c.JSON(records)
}

// deleteAllRecords handles DELETE /records.
func (s *Server) deleteAllRecords(c *fiber.Ctx) error {
	if err := s.store.Records().DeleteAll(); err != nil {
		s.log.Error().Err(err).Msg("delete all records failed")
		return errorJSON(c, fiber.StatusInternalServerError, "failed to delete all records")
	}
	return c.JSON(fiber.Map{"ok": true, "message": "All records deleted"})
}

// updateRecord handles PUT /records/:id.
func (s *Server) updateRecord(c *fiber.Ctx) error {
	id := c.Params("id")
	rec, err := parseRecordBody(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	updated, err := s.store.Records().Replace(id, rec)
	if errors.Is(err, types.ErrNotFound) {
		return errorJSON(c, fiber.StatusNotFound, "record "+id+" not found")
	}
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("update record failed")
		return errorJSON(c, fiber.StatusInternalServerError, "failed to update record")
	}
	return c.JSON(fiber.Map{"ok": true, "data": updated})
}

// deleteRecord handles DELETE /records/:id.
func (s *Server) deleteRecord(c *fiber.Ctx) error {
	id := c.Params("id")

	err := s.store.Records().Delete(id)
	if errors.Is(err, types.ErrNotFound) {
		return errorJSON(c, fiber.StatusNotFound, "record "+id+" not found")
	}
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("delete record failed")
		return errorJSON(c, fiber.StatusInternalServerError, "failed to delete record")
	}
	return c.JSON(fiber.Map{"ok": true, "message": "record " + id + " deleted"})
}
