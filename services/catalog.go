package services

// PresentationOptions returns the list of presentation (unit) options.
var PresentationOptions = []string{
	"UNIDAD",
	"BULTO",
	"CAJA",
	"PAQUETE",
	"BOLSA",
	"KG",
	"LIBRA",
	"LITRO",
	"GALÓN",
	"METRO",
	"M2",
	"M3",
	"ROLLO",
	"PAR",
	"JUEGO",
	"GLOBAL",
}

// CategoryOptions returns the list of budget category options.
var CategoryOptions = []string{
	"materiales",
	"mano_de_obra",
	"equipos",
	"transporte",
	"papeleria",
	"tecnologia",
	"alimentacion",
	"otros",
}
