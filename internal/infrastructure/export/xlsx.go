// Package export genera hojas de cálculo (XLSX) de la matriz de permisos y del listado de usuarios.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mydeeptech/admin-dashboard/internal/domain/entity"
)

// ContentTypeXLSX media type de los archivos generados.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	matrixSheet = "Permissions"
	usersSheet  = "Users"
	granted     = "✓"
	denied      = "✗"
)

// UsersHeader columnas del export de usuarios.
var UsersHeader = []string{"ID", "Name", "Email", "Phone", "Role", "Active", "Last Login", "Created At"}

// PermissionMatrixXLSX una fila por permiso (agrupada por categoría) y una columna por rol.
func PermissionMatrixXLSX(m entity.PermissionMatrix) ([]byte, error) {
	header := []string{"Category", "Permission", "ID"}
	for _, r := range m.Roles {
		header = append(header, r.Name.DisplayName())
	}

	rows := make([][]any, 0, len(m.Permissions))
	order, groups := m.ByCategory()
	for _, category := range order {
		for _, p := range groups[category] {
			row := []any{category, p.Name, p.ID}
			for _, r := range m.Roles {
				mark := denied
				if m.Granted(r.Name, p.ID) {
					mark = granted
				}
				row = append(row, mark)
			}
			rows = append(rows, row)
		}
	}
	return writeSheet(matrixSheet, header, rows, 18)
}

// UsersXLSX una fila por usuario.
func UsersXLSX(users []entity.User) ([]byte, error) {
	rows := make([][]any, 0, len(users))
	for _, u := range users {
		lastLogin := ""
		if u.LastLogin != nil {
			lastLogin = u.LastLogin.UTC().Format("2006-01-02 15:04")
		}
		created := ""
		if !u.CreatedAt.IsZero() {
			created = u.CreatedAt.UTC().Format("2006-01-02")
		}
		active := "No"
		if u.IsActive {
			active = "Yes"
		}
		rows = append(rows, []any{u.ID, u.Name, u.Email, u.Phone, u.Role.DisplayName(), active, lastLogin, created})
	}
	return writeSheet(usersSheet, UsersHeader, rows, 22)
}

func writeSheet(sheet string, header []string, rows [][]any, width float64) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("export: crear hoja: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("export: borrar hoja por defecto: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("export: estilo de cabecera: %w", err)
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("export: cabecera: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return nil, fmt.Errorf("export: coordenadas: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("export: aplicar estilo: %w", err)
	}
	lastCol, _, _ := excelize.SplitCellName(last)
	if err := f.SetColWidth(sheet, "A", lastCol, width); err != nil {
		return nil, fmt.Errorf("export: ancho de columnas: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("export: coordenadas: %w", err)
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return nil, fmt.Errorf("export: fila %d: %w", i+2, err)
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, fmt.Errorf("export: fijar cabecera: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("export: escribir xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
