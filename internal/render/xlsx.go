package render

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/crimemap/internal/boundary"
	"github.com/sells-group/crimemap/internal/crime"
)

// DistrictSheet is the worksheet name of the district table.
const DistrictSheet = "Districts"

// DistrictTable saves a workbook listing each joined district with its
// incident count, in join order.
func DistrictTable(path string, joined []crime.Joined[boundary.Boundary]) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(DistrictSheet)
	if err != nil {
		return eris.Wrap(err, "render: add district sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"District", "Name", "Incidents"} {
		header.AddCell().SetString(h)
	}
	for _, j := range joined {
		row := sheet.AddRow()
		row.AddCell().SetString(j.Boundary.ID)
		row.AddCell().SetString(j.Boundary.Name)
		row.AddCell().SetInt(j.Count)
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "render: save %s", path)
	}
	return nil
}
