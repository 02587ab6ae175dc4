package httpapi

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/helpachild/recordbook/pkg/types"
)

// sheetBody is the request body for sheet create and rename.
type sheetBody struct {
	Name string `json:"name"`
}

// parseSheetBody decodes the {name} body leniently: an absent or invalid
// body yields an empty name, which the store substitutes with a default.
func parseSheetBody(c *fiber.Ctx) sheetBody {
	var body sheetBody
	_ = json.Unmarshal(c.Body(), &body)
	return body
}

// listSheets handles GET /sheets.
func (s *Server) listSheets(c *fiber.Ctx) error {
	sheets, err := s.store.Sheets().List()
	if err != nil {
		s.log.Error().Err(err).Msg("list sheets failed")
		return errorJSON(c, fiber.StatusInternalServerError, "failed to list sheets")
	}
	return c.JSON(sheets)
}

// createSheet handles POST /sheets.
func (s *Server) createSheet(c *fiber.Ctx) error {
	body := parseSheetBody(c)

	sheet, err := s.store.Sheets().Create(body.Name)
	if err != nil {
		s.log.Error().Err(err).Msg("create sheet failed")
		return errorJSON(c, fiber.StatusInternalServerError, "failed to create sheet")
	}
	return c.Status(fiber.StatusCreated).JSON(sheet)
}

// renameSheet handles PATCH /sheets/:id.
func (s *Server) renameSheet(c *fiber.Ctx) error {
	id := c.Params("id")
	body := parseSheetBody(c)

	sheet, err := s.store.Sheets().Rename(id, body.Name)
	if errors.Is(err, types.ErrNotFound) {
		return errorJSON(c, fiber.StatusNotFound, "sheet "+id+" not found")
	}
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("rename sheet failed")
		return errorJSON(c, fiber.StatusInternalServerError, "failed to rename sheet")
	}
	return c.JSON(sheet)
}

// deleteSheet handles DELETE /sheets/:id. Deleting a sheet also removes
// every record that belongs to it.
func (s *Server) deleteSheet(c *fiber.Ctx) error {
	id := c.Params("id")

	err := s.store.Sheets().Delete(id)
	if errors.Is(err, types.ErrNotFound) {
		return errorJSON(c, fiber.StatusNotFound, "sheet "+id+" not found")
	}
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("delete sheet failed")
		return errorJSON(c, fiber.StatusInternalServerError, "failed to delete sheet")
	}
	return c.JSON(fiber.Map{"ok": true})
}

// listSheetRecords handles GET /sheets/:id/records.
func (s *Server) listSheetRecords(c *fiber.Ctx) error {
	id := c.Params("id")

	records, err := s.store.Records().BySheet(id)
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("list sheet records failed")
		return errorJSON(c, fiber.StatusInternalServerError, "failed to read records")
	}
	return c.JSON(records)
}

// createSheetRecord handles POST /sheets/:id/records. The record's sheetId
// is forced to the path id regardless of the body.
func (s *Server) createSheetRecord(c *fiber.Ctx) error {
	id := c.Params("id")
	rec, err := parseRecordBody(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	rec.SetSheetID(id)

	stored, err := s.store.Records().Append(rec)
	if err != nil {
		s.log.Error().Err(err).Str("sheetId", id).Msg("append sheet record failed")
		return errorJSON(c, fiber.StatusInternalServerError, "failed to save record")
	}
	return c.JSON(fiber.Map{"ok": true, "data": stored})
}
