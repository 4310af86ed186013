package insight

// DefaultLanguage is used whenever a request names an unsupported language.
const DefaultLanguage = "en"

// SupportedLanguages lists the languages with facts, fallback text and markers.
var SupportedLanguages = []string{"en", "fr", "pt"}

type factPool struct {
	common   []string
	mindelo  []string
	lausanne []string
}

var factBank = map[string]factPool{
	"en": {
		common: []string{
			"Both cities are shaped by water: Mindelo by the Atlantic and Lausanne by Lake Geneva.",
			"Mindelo and Lausanne both host major music festivals that attract international crowds.",
			"Both places are known for strong local identity and multilingual daily life.",
			"Mindelo and Lausanne are both hilly cities with iconic waterfront views.",
			"Both cities connect local culture with global visitors through ports and rail links.",
		},
		mindelo: []string{
			"Mindelo is the cultural heart of Cabo Verde and the home city of Cesaria Evora.",
			"Laginha Beach sits minutes from central Mindelo and is a daily social hub.",
			"Mindelo Carnival is one of the most famous cultural events in Cabo Verde.",
			"The Porto Grande bay gives Mindelo one of the largest natural harbors in the region.",
			"Morna and coladeira music are deeply rooted in everyday life in Mindelo.",
		},
		lausanne: []string{
			"Lausanne is the Olympic Capital and hosts the International Olympic Committee.",
			"Lausanne is built on steep slopes between Lake Geneva and surrounding hills.",
			"The Lausanne metro is one of the few fully automated metro systems in Switzerland.",
			"Lausanne sits in the French-speaking canton of Vaud.",
			"On clear days from Lausanne, the Alps are visible across Lake Geneva.",
		},
	},
	"fr": {
		common: []string{
			"Les deux villes vivent avec l'eau: Mindelo avec l'Atlantique et Lausanne avec le Léman.",
			"Mindelo et Lausanne accueillent des festivals de musique connus à l’international.",
			"Les deux lieux ont une forte identité locale et une vie quotidienne multilingue.",
			"Mindelo et Lausanne sont deux villes en pente avec des vues emblématiques sur l’eau.",
			"Les deux villes relient culture locale et visiteurs internationaux.",
		},
		mindelo: []string{
			"Mindelo est le cœur culturel du Cabo Verde et la ville de Cesaria Evora.",
			"La plage de Laginha est à quelques minutes du centre de Mindelo.",
			"Le Carnaval de Mindelo est un événement culturel majeur du Cabo Verde.",
			"La baie de Porto Grande est l’un des grands ports naturels de la région.",
			"La morna et la coladeira font partie du quotidien à Mindelo.",
		},
		lausanne: []string{
			"Lausanne est la Capitale olympique et accueille le CIO.",
			"Lausanne est construite sur des pentes entre le lac Léman et les collines.",
			"Le métro de Lausanne est l’un des rares métros entièrement automatiques en Suisse.",
			"Lausanne se trouve dans le canton francophone de Vaud.",
			"Par temps clair, on voit les Alpes depuis Lausanne au-dessus du Léman.",
		},
	},
	"pt": {
		common: []string{
			"As duas cidades vivem com a água: Mindelo no Atlântico e Lausanne no Lago Léman.",
			"Mindelo e Lausanne acolhem festivais de música com público internacional.",
			"As duas cidades têm forte identidade local e vida diária multilingue.",
			"Mindelo e Lausanne são cidades inclinadas com vistas marcantes sobre a água.",
			"As duas ligam cultura local e visitantes internacionais.",
		},
		mindelo: []string{
			"Mindelo é o coração cultural de Cabo Verde e cidade de Cesaria Evora.",
			"A praia de Laginha fica a poucos minutos do centro de Mindelo.",
			"O Carnaval de Mindelo é um dos eventos culturais mais conhecidos de Cabo Verde.",
			"A baía do Porto Grande é um dos maiores portos naturais da região.",
			"A morna e a coladeira fazem parte do quotidiano em Mindelo.",
		},
		lausanne: []string{
			"Lausanne é a Capital Olímpica e sede do Comité Olímpico Internacional.",
			"Lausanne foi construída em encostas entre o Lago Léman e as colinas.",
			"O metro de Lausanne é dos poucos metros totalmente automáticos na Suíça.",
			"Lausanne fica no cantão francófono de Vaud.",
			"Em dias limpos, vê-se os Alpes a partir de Lausanne.",
		},
	},
}
