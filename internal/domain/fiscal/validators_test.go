package fiscal_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/contable-api/internal/domain/fiscal"
	"github.com/jhoicas/contable-api/pkg/afip"
	"github.com/jhoicas/contable-api/pkg/money"
)

var art = time.FixedZone("ART", -3*60*60)

// now de referencia: 18/10/2026 al mediodía en Buenos Aires.
var testNow = time.Date(2026, time.October, 18, 12, 0, 0, 0, art)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, art)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newValidator() *fiscal.Validator {
	return fiscal.NewValidator(fiscal.DefaultRules())
}

// ── Identificador (CUIT) ──────────────────────────────────────────────────────

func TestValidateIdentifier(t *testing.T) {
	cases := []struct {
		name    string
		cuit    string
		verdict fiscal.Verdict
		reason  string
	}{
		{"vacío es opcional", "", fiscal.Valid, ""},
		{"con guiones", "30-70907418-7", fiscal.Valid, ""},
		{"con espacios", "20 12345678 6", fiscal.Valid, ""},
		{"dígito incorrecto", "30-70907418-1", fiscal.Invalid, "dígito verificador"},
		{"verificador 0 no corresponde", "30-70907418-0", fiscal.Invalid, "dígito verificador"},
		{"10 dígitos", "3070907418", fiscal.Invalid, "11 dígitos"},
		{"letras", "30-7090741X-7", fiscal.Invalid, "11 dígitos"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := fiscal.ValidateIdentifier(tc.cuit)
			assert.Equal(t, tc.verdict, r.Verdict)
			if tc.verdict == fiscal.Invalid {
				assert.Equal(t, fiscal.KindIdentifierChecksum, r.Kind)
				assert.Contains(t, r.Reason, tc.reason)
			}
		})
	}
}

func TestValidateIdentifier_Determinista(t *testing.T) {
	for _, cuit := range []string{"30709074187", "30709074181", "00000000000", "99999999999"} {
		first := fiscal.ValidateIdentifier(cuit)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, fiscal.ValidateIdentifier(cuit), cuit)
		}
	}
}

// ── Fecha fiscal ──────────────────────────────────────────────────────────────

func TestValidateDate(t *testing.T) {
	v := newValidator()

	t.Run("anterior al inicio del sistema", func(t *testing.T) {
		r := v.ValidateDate(day(2019, time.December, 31), testNow)
		assert.Equal(t, fiscal.Invalid, r.Verdict)
		assert.Equal(t, fiscal.KindDateRange, r.Kind)
		assert.Contains(t, r.Reason, "01/01/2020")
	})

	t.Run("primer día admitido", func(t *testing.T) {
		assert.Equal(t, fiscal.Valid, v.ValidateDate(day(2020, time.January, 1), testNow).Verdict)
	})

	t.Run("hoy", func(t *testing.T) {
		assert.Equal(t, fiscal.Valid, v.ValidateDate(day(2026, time.October, 18), testNow).Verdict)
	})

	t.Run("mañana se acepta con advertencia", func(t *testing.T) {
		r := v.ValidateDate(day(2026, time.October, 19), testNow)
		assert.Equal(t, fiscal.ValidWithAdvisory, r.Verdict)
		require.Len(t, r.Advisories, 1)
		assert.Equal(t, fiscal.AdvisoryFutureDate, r.Advisories[0].Code)
	})

	t.Run("último día del año siguiente", func(t *testing.T) {
		r := v.ValidateDate(day(2027, time.December, 31), testNow)
		assert.Equal(t, fiscal.ValidWithAdvisory, r.Verdict)
	})

	t.Run("un año y un día después del cierre del año actual", func(t *testing.T) {
		r := v.ValidateDate(day(2026, time.December, 31).AddDate(1, 0, 1), testNow)
		assert.Equal(t, fiscal.Invalid, r.Verdict)
		assert.Equal(t, fiscal.KindDateRange, r.Kind)
		assert.Contains(t, r.Reason, "31/12/2027")
	})

	t.Run("fecha obligatoria", func(t *testing.T) {
		r := v.ValidateDate(time.Time{}, testNow)
		assert.Equal(t, fiscal.Invalid, r.Verdict)
		assert.Equal(t, fiscal.KindRequired, r.Kind)
	})

	t.Run("hoy se calcula en hora argentina", func(t *testing.T) {
		// 01:00 UTC del 19/10 sigue siendo 18/10 en Buenos Aires.
		nowUTC := time.Date(2026, time.October, 19, 1, 0, 0, 0, time.UTC)
		r := v.ValidateDate(day(2026, time.October, 19), nowUTC)
		assert.Equal(t, fiscal.ValidWithAdvisory, r.Verdict)
	})
}

func TestValidateDate_ReglasConfigurables(t *testing.T) {
	rules := fiscal.DefaultRules()
	rules.Epoch = day(2024, time.January, 1)
	rules.HorizonYears = 0
	v := fiscal.NewValidator(rules)

	assert.Equal(t, fiscal.Invalid, v.ValidateDate(day(2023, time.June, 30), testNow).Verdict)
	assert.Equal(t, fiscal.ValidWithAdvisory, v.ValidateDate(day(2026, time.December, 31), testNow).Verdict)
	assert.Equal(t, fiscal.Invalid, v.ValidateDate(day(2027, time.January, 1), testNow).Verdict)
}

// ── Montos ────────────────────────────────────────────────────────────────────

func TestValidateAmount(t *testing.T) {
	v := newValidator()
	cases := []struct {
		raw     money.Text
		verdict fiscal.Verdict
		kind    fiscal.Kind
		reason  string
	}{
		{"999999999.99", fiscal.Valid, "", ""},
		{"10.10", fiscal.Valid, "", ""},
		{"0", fiscal.Valid, "", ""},
		{"1.234,56", fiscal.Valid, "", ""},
		{"1000000000.00", fiscal.Invalid, fiscal.KindAmountRange, "excede el límite"},
		{"10.105", fiscal.Invalid, fiscal.KindAmountRange, "más de 2 decimales"},
		{"-0.01", fiscal.Invalid, fiscal.KindAmountRange, "no puede ser negativo"},
		{"abc", fiscal.Invalid, fiscal.KindFormat, "número válido"},
		{"", fiscal.Invalid, fiscal.KindFormat, "número válido"},
	}
	for _, tc := range cases {
		t.Run(string(tc.raw), func(t *testing.T) {
			r, _ := v.ValidateAmount(tc.raw, "Subtotal")
			assert.Equal(t, tc.verdict, r.Verdict)
			if tc.verdict == fiscal.Invalid {
				assert.Equal(t, tc.kind, r.Kind)
				assert.Contains(t, r.Reason, tc.reason)
				assert.True(t, strings.HasPrefix(r.Reason, "Subtotal"))
			}
		})
	}
}

func TestValidateAmount_ValorExacto(t *testing.T) {
	v := newValidator()
	r, value := v.ValidateAmount("10.10", "Total")
	require.Equal(t, fiscal.Valid, r.Verdict)
	assert.True(t, dec("10.1").Equal(value))

	_, value = v.ValidateAmount("1.234,56", "Total")
	assert.True(t, dec("1234.56").Equal(value))
}

// ── Número de comprobante ─────────────────────────────────────────────────────

func TestValidateNumber(t *testing.T) {
	v := newValidator()

	for _, class := range afip.InvoiceClasses {
		assert.Equal(t, fiscal.Valid, v.ValidateNumber("0001-00000001", class).Verdict, class)
		assert.Equal(t, fiscal.Valid, v.ValidateNumber("", class).Verdict, class)

		r := v.ValidateNumber("1-1", class)
		assert.Equal(t, fiscal.Invalid, r.Verdict)
		assert.Equal(t, fiscal.KindNumberFormat, r.Kind)
		assert.Equal(t, "Número de factura "+string(class)+" debe tener formato XXXX-XXXXXXXX", r.Reason)
	}

	assert.Equal(t, fiscal.Invalid, v.ValidateNumber("00001-00000001", afip.ClassA).Verdict)
	assert.Equal(t, fiscal.Invalid, v.ValidateNumber("0001-0000000A", afip.ClassB).Verdict)
	assert.Equal(t, fiscal.Invalid, v.ValidateNumber(strings.Repeat("9", 51), afip.ClassA).Verdict)
	assert.Equal(t, fiscal.Invalid, v.ValidateNumber("0001-00000001", afip.InvoiceClass("E")).Verdict)
}

func TestValidateNumber_FormatoPorClase(t *testing.T) {
	rules := fiscal.DefaultRules()
	g := rules.NumberGrammars[afip.ClassC]
	g.Pattern = regexpMust(`^\d{5}-\d{8}$`)
	g.Layout = "XXXXX-XXXXXXXX"
	rules.NumberGrammars[afip.ClassC] = g
	v := fiscal.NewValidator(rules)

	assert.Equal(t, fiscal.Valid, v.ValidateNumber("00001-00000001", afip.ClassC).Verdict)
	assert.Equal(t, fiscal.Invalid, v.ValidateNumber("0001-00000001", afip.ClassC).Verdict)
	assert.Equal(t, fiscal.Valid, v.ValidateNumber("0001-00000001", afip.ClassA).Verdict)
}

// ── Conciliación ──────────────────────────────────────────────────────────────

func TestReconcile(t *testing.T) {
	v := newValidator()

	t.Run("21% cuadra sin advertencias", func(t *testing.T) {
		r := v.Reconcile(dec("100.00"), dec("21.00"), dec("121.00"), afip.ClassA)
		assert.Equal(t, fiscal.Valid, r.Verdict)
		assert.Empty(t, r.Advisories)
	})

	t.Run("supera la tolerancia de 2 centavos", func(t *testing.T) {
		r := v.Reconcile(dec("100.00"), dec("21.00"), dec("121.03"), afip.ClassA)
		assert.Equal(t, fiscal.Invalid, r.Verdict)
		assert.Equal(t, fiscal.KindReconciliation, r.Kind)
		assert.Contains(t, r.Reason, "100.00")
		assert.Contains(t, r.Reason, "21.00")
		assert.Contains(t, r.Reason, "121.03")
	})

	t.Run("dentro de la tolerancia", func(t *testing.T) {
		assert.Equal(t, fiscal.Valid, v.Reconcile(dec("100.00"), dec("21.00"), dec("121.02"), afip.ClassB).Verdict)
		assert.Equal(t, fiscal.Valid, v.Reconcile(dec("100.00"), dec("21.00"), dec("120.98"), afip.ClassB).Verdict)
	})

	t.Run("alícuota inusual", func(t *testing.T) {
		r := v.Reconcile(dec("100.00"), dec("15.00"), dec("115.00"), afip.ClassB)
		assert.Equal(t, fiscal.ValidWithAdvisory, r.Verdict)
		require.Len(t, r.Advisories, 1)
		assert.Equal(t, fiscal.AdvisoryUnusualRate, r.Advisories[0].Code)
		assert.Contains(t, r.Advisories[0].Message, "15.00%")
	})

	t.Run("alícuotas conocidas", func(t *testing.T) {
		assert.Equal(t, fiscal.Valid, v.Reconcile(dec("200"), dec("21"), dec("221"), afip.ClassB).Verdict)    // 10.5%
		assert.Equal(t, fiscal.Valid, v.Reconcile(dec("100"), dec("27"), dec("127"), afip.ClassB).Verdict)    // 27%
		assert.Equal(t, fiscal.Valid, v.Reconcile(dec("100"), dec("21.05"), dec("121.05"), afip.ClassB).Verdict) // 21.05%
	})

	t.Run("borde del margen de 0.1 puntos", func(t *testing.T) {
		r := v.Reconcile(dec("100"), dec("21.10"), dec("121.10"), afip.ClassB)
		assert.Equal(t, fiscal.ValidWithAdvisory, r.Verdict)
	})

	t.Run("alícuota menor al 1% no se advierte", func(t *testing.T) {
		assert.Equal(t, fiscal.Valid, v.Reconcile(dec("100"), dec("0.50"), dec("100.50"), afip.ClassB).Verdict)
	})

	t.Run("descuadre tiene precedencia sobre la alícuota", func(t *testing.T) {
		r := v.Reconcile(dec("100.00"), dec("15.00"), dec("200.00"), afip.ClassC)
		assert.Equal(t, fiscal.Invalid, r.Verdict)
		assert.Empty(t, r.Advisories)
	})

	t.Run("factura C con IVA", func(t *testing.T) {
		r := v.Reconcile(dec("100.00"), dec("21.00"), dec("121.00"), afip.ClassC)
		assert.Equal(t, fiscal.ValidWithAdvisory, r.Verdict)
		require.Len(t, r.Advisories, 1)
		assert.Equal(t, fiscal.AdvisoryClassCWithIVA, r.Advisories[0].Code)
		assert.Equal(t, fiscal.FieldIVAAmount, r.Advisories[0].Field)
	})

	t.Run("factura C con IVA y alícuota inusual", func(t *testing.T) {
		r := v.Reconcile(dec("100.00"), dec("15.00"), dec("115.00"), afip.ClassC)
		require.Len(t, r.Advisories, 2)
		assert.Equal(t, fiscal.AdvisoryClassCWithIVA, r.Advisories[0].Code)
		assert.Equal(t, fiscal.AdvisoryUnusualRate, r.Advisories[1].Code)
	})

	t.Run("factura A sin IVA", func(t *testing.T) {
		r := v.Reconcile(dec("100.00"), dec("0"), dec("100.00"), afip.ClassA)
		assert.Equal(t, fiscal.ValidWithAdvisory, r.Verdict)
		assert.Equal(t, fiscal.AdvisoryClassAWithoutIVA, r.Advisories[0].Code)
	})

	t.Run("tolerancia configurable", func(t *testing.T) {
		rules := fiscal.DefaultRules()
		rules.Tolerance = dec("0.05")
		strict := fiscal.NewValidator(rules)
		assert.Equal(t, fiscal.Valid, strict.Reconcile(dec("100.00"), dec("21.00"), dec("121.03"), afip.ClassA).Verdict)
	})
}
