package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpachild/recordbook/internal/export"
)

// downloadName is the file name offered to the browser for exports.
const downloadName = "records.xlsx"

// exportExcel handles GET /export/excel. Without a sheetId query the full
// record list is exported; with one, only that sheet's records. The workbook
// is regenerated from the current store state before streaming so the
// download always reflects the latest mutation.
func (s *Server) exportExcel(c *fiber.Ctx) error {
	sheetID := c.Query("sheetId")

	var path string
	var err error
	if sheetID == "" {
		path = export.CanonicalPath(s.exportDir)
		records, readErr := s.store.Records().ReadAll()
		if readErr != nil {
			err = readErr
		} else {
			err = s.exporter.Export(records, path)
		}
	} else {
		path = export.SheetPath(s.exportDir, sheetID)
		records, readErr := s.store.Records().BySheet(sheetID)
		if readErr != nil {
			err = readErr
		} else {
			err = s.exporter.Export(records, path)
		}
	}
	if err != nil {
		s.log.Error().Err(err).Str("sheetId", sheetID).Msg("export failed")
		return errorJSON(c, fiber.StatusInternalServerError, "failed to export")
	}

	return c.Download(path, downloadName)
}
