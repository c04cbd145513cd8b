package pipeline

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"feedscope/internal/config"
	"feedscope/internal/exportplan"
	"feedscope/internal/mapping"
	"feedscope/internal/platform"
)

const shopifyCSV = `Handle,Title,Vendor,Variant Price
awesome-shirt,Awesome Shirt,Acme,19.99
cool-hat,Cool Hat,Acme,9.50
warm-socks,Warm Socks,North,4.25
red-scarf,Red Scarf,North,14.00
blue-jeans,Blue Jeans,Acme,39.90
`

func TestResolveShopifyEndToEnd(t *testing.T) {
	t.Parallel()

	res, err := Resolve([]byte(shopifyCSV), Options{Filename: "products.csv"})
	require.NoError(t, err)
	require.True(t, res.Parse.Success)

	require.Equal(t, []string{"Handle", "Title", "Vendor", "Variant Price"}, res.Parse.Headers)
	require.Equal(t, 5, res.Parse.TotalRows)
	require.Len(t, res.Parse.SampleRows, 5)
	require.Equal(t, "ascii", res.Parse.Encoding)
	require.Len(t, res.Parse.Checksum, 64)

	require.Equal(t, "shopify", res.Detection.Platform)
	require.GreaterOrEqual(t, res.Detection.Confidence, 60)

	requiredEvidence := 0
	for _, ev := range res.Detection.Evidence {
		if ev.Kind == platform.EvidenceRequiredColumn {
			requiredEvidence++
		}
	}
	require.GreaterOrEqual(t, requiredEvidence, 2)

	require.Equal(t, "Title", res.Mapping[mapping.FieldProductName])
	require.Equal(t, "Variant Price", res.Mapping[mapping.FieldPrice])
	require.Equal(t, "Vendor", res.Mapping[mapping.FieldBrand])

	require.Equal(t, res.Parse.Headers, res.Export.OriginalColumns)
	require.Contains(t, res.Export.PlatformGenerated, exportplan.GeneratedPrefix+"handle")
}

func TestResolveIsIdempotent(t *testing.T) {
	t.Parallel()

	a, err := Resolve([]byte(shopifyCSV), Options{})
	require.NoError(t, err)
	b, err := Resolve([]byte(shopifyCSV), Options{})
	require.NoError(t, err)

	require.Equal(t, a.Parse.Headers, b.Parse.Headers)
	require.Equal(t, a.Parse.Columns, b.Parse.Columns)
	require.Equal(t, a.Parse.Checksum, b.Parse.Checksum)
	require.Equal(t, a.Detection, b.Detection)
	require.Equal(t, a.Mapping, b.Mapping)
	require.Equal(t, a.Export, b.Export)
}

func TestResolveRaggedRowsWarnNotFail(t *testing.T) {
	t.Parallel()

	in := "name,price,sku\nshirt,10\nhat,5,H1,extra\nsocks,3,S1\n"
	res, err := Resolve([]byte(in), Options{})
	require.NoError(t, err)
	require.True(t, res.Parse.Success)
	require.Equal(t, 3, res.Parse.TotalRows)

	ragged := 0
	for _, w := range res.Parse.Warnings {
		if strings.Contains(w, "fields") {
			ragged++
		}
	}
	require.Equal(t, 2, ragged)
}

func TestResolveSizeRejection(t *testing.T) {
	t.Parallel()

	limits := config.Limits{FreeMaxBytes: 16, ProMaxBytes: 64, BusinessMaxBytes: 128}
	big := []byte("name,price\n" + strings.Repeat("a,1\n", 10))

	res, err := Resolve(big, Options{Plan: config.PlanFree, Limits: limits})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrRejected))

	var rej *RejectionError
	require.True(t, errors.As(err, &rej))
	require.Equal(t, "size_limit", rej.Reason)
	require.Equal(t, config.PlanFree, rej.Plan)
	require.Equal(t, int64(16), rej.Limit)

	// Rejection happens before tokenization: nothing was parsed.
	require.False(t, res.Parse.Success)
	require.Empty(t, res.Parse.Headers)
	require.Zero(t, res.Parse.TotalRows)
	require.Equal(t, platform.Unknown, res.Detection.Platform)
}

func TestResolvePlanTiersGateTheSameFile(t *testing.T) {
	t.Parallel()

	limits := config.Limits{FreeMaxBytes: 16, ProMaxBytes: 1 << 20, BusinessMaxBytes: 1 << 21}
	in := []byte("name,price\nshirt,10\nhat,5\n")

	_, err := Resolve(in, Options{Plan: config.PlanFree, Limits: limits})
	require.True(t, errors.Is(err, ErrRejected))

	res, err := Resolve(in, Options{Plan: config.PlanPro, Limits: limits})
	require.NoError(t, err)
	require.True(t, res.Parse.Success)
}

func TestResolveUnsupportedType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		buf      []byte
		filename string
	}{
		{
			name: "png bytes",
			buf:  []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0},
		},
		{
			name:     "bad extension",
			buf:      []byte("name,price\na,1\n"),
			filename: "report.pdf",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Resolve(tt.buf, Options{Filename: tt.filename})
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrRejected))

			var rej *RejectionError
			require.True(t, errors.As(err, &rej))
			require.Equal(t, "unsupported_type", rej.Reason)
		})
	}
}

func TestResolveEmptyFile(t *testing.T) {
	t.Parallel()

	res, err := Resolve([]byte(""), Options{})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNoData))
	require.False(t, res.Parse.Success)
}

func TestResolveXLSXRoute(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows := [][]any{
		{"Handle", "Title", "Vendor", "Variant Price"},
		{"mug", "Mug", "Acme", "7.99"},
		{"pen", "Pen", "Acme", "1.20"},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	res, err := Resolve(buf.Bytes(), Options{Filename: "products.xlsx"})
	require.NoError(t, err)
	require.True(t, res.Parse.Success)
	require.Equal(t, "xlsx", res.Parse.Encoding)
	require.Equal(t, []string{"Handle", "Title", "Vendor", "Variant Price"}, res.Parse.Headers)
	require.Equal(t, 2, res.Parse.TotalRows)
	require.Equal(t, "shopify", res.Detection.Platform)
}

func TestResolveCyrillicWindows1251(t *testing.T) {
	t.Parallel()

	// "Название;Цена\nфутболка;100" in windows-1251 bytes.
	in := []byte{
		0xCD, 0xE0, 0xE7, 0xE2, 0xE0, 0xED, 0xE8, 0xE5, ';',
		0xD6, 0xE5, 0xED, 0xE0, '\n',
		0xF4, 0xF3, 0xF2, 0xE1, 0xEE, 0xEB, 0xEA, 0xE0, ';', '1', '0', '0', '\n',
	}

	res, err := Resolve(in, Options{})
	require.NoError(t, err)
	require.True(t, res.Parse.Success)
	require.Equal(t, "windows-1251", res.Parse.Encoding)
	require.Equal(t, []string{"Название", "Цена"}, res.Parse.Headers)
	require.Equal(t, "Название", res.Mapping[mapping.FieldProductName])
	require.Equal(t, "Цена", res.Mapping[mapping.FieldPrice])
}

func TestColumnPreservation(t *testing.T) {
	t.Parallel()

	in := "Weird Col !,ДРУГАЯ колонка,x,x,price\n1,2,3,4,5\n"
	res, err := Resolve([]byte(in), Options{})
	require.NoError(t, err)
	require.Equal(t,
		[]string{"Weird Col !", "ДРУГАЯ колонка", "x", "x", "price"},
		res.Export.OriginalColumns)
	require.Equal(t, res.Parse.Headers, res.Export.OriginalColumns)
}

func TestChecksumStableAndDistinct(t *testing.T) {
	t.Parallel()

	a := Checksum([]byte("a,b\n1,2\n"))
	b := Checksum([]byte("a,b\n1,2\n"))
	c := Checksum([]byte("a,b\n1,3\n"))
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Len(t, a, 64)
}
