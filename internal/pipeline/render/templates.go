package render

// One template per document class. The wording differs per type; the
// structure is shared: greeting, document summary table, access link.

const invoiceTemplate = `<html>
<body style="font-family: Arial, sans-serif; color: #333;">
<p>Estimado/a {{.Name}},</p>
<p>Tiene disponible una nueva factura.</p>
<table cellpadding="4" cellspacing="0">
<tr><td><b>Documento</b></td><td>{{.Series}}/{{.Number}}</td></tr>
<tr><td><b>Ejercicio</b></td><td>{{.FiscalYear}}</td></tr>
<tr><td><b>Fecha</b></td><td>{{.Date}}</td></tr>
<tr><td><b>Importe</b></td><td>{{.Total}} &euro;</td></tr>
<tr><td><b>Referencia</b></td><td>{{.File}}</td></tr>
</table>
<p>Puede consultarla y descargarla desde el siguiente enlace:</p>
<p><a href="{{.Link}}">Ver factura</a></p>
<p>Este enlace caduca a los 7 d&iacute;as.</p>
</body>
</html>`

const quoteTemplate = `<html>
<body style="font-family: Arial, sans-serif; color: #333;">
<p>Estimado/a {{.Name}},</p>
<p>Tiene disponible un nuevo presupuesto.</p>
<table cellpadding="4" cellspacing="0">
<tr><td><b>Documento</b></td><td>{{.Series}}/{{.Number}}</td></tr>
<tr><td><b>Ejercicio</b></td><td>{{.FiscalYear}}</td></tr>
<tr><td><b>Fecha</b></td><td>{{.Date}}</td></tr>
<tr><td><b>Importe</b></td><td>{{.Total}} &euro;</td></tr>
<tr><td><b>Referencia</b></td><td>{{.File}}</td></tr>
</table>
<p>Puede consultarlo desde el siguiente enlace:</p>
<p><a href="{{.Link}}">Ver presupuesto</a></p>
<p>Este enlace caduca a los 7 d&iacute;as.</p>
</body>
</html>`

const deliveryTemplate = `<html>
<body style="font-family: Arial, sans-serif; color: #333;">
<p>Estimado/a {{.Name}},</p>
<p>Tiene disponible un nuevo albar&aacute;n.</p>
<table cellpadding="4" cellspacing="0">
<tr><td><b>Documento</b></td><td>{{.Series}}/{{.Number}}</td></tr>
<tr><td><b>Ejercicio</b></td><td>{{.FiscalYear}}</td></tr>
<tr><td><b>Fecha</b></td><td>{{.Date}}</td></tr>
<tr><td><b>Importe</b></td><td>{{.Total}} &euro;</td></tr>
<tr><td><b>Referencia</b></td><td>{{.File}}</td></tr>
</table>
<p>Puede consultarlo desde el siguiente enlace:</p>
<p><a href="{{.Link}}">Ver albar&aacute;n</a></p>
<p>Este enlace caduca a los 7 d&iacute;as.</p>
</body>
</html>`

var templateSources = map[string]string{
	"invoice":  invoiceTemplate,
	"quote":    quoteTemplate,
	"delivery": deliveryTemplate,
}
