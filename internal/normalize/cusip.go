package normalize

// cusipToTicker is a static lookup table from 9-character CUSIP to
// ticker, covering the large-cap names that dominate 13F filings. It is
// intentionally not exhaustive -- unknown CUSIPs fall back to the
// issuer name already carried on the record (see collectors/institutions.go).
var cusipToTicker = map[string]string{
	"037833100": "AAPL",
	"594918104": "MSFT",
	"02079K305": "GOOGL",
	"023135106": "AMZN",
	"88160R101": "TSLA",
	"30303M102": "META",
	"67066G104": "NVDA",
	"084670702": "BRK.B",
	"46625H100": "JPM",
	"478160104": "JNJ",
	"92826C839": "V",
	"742718109": "PG",
	"91324P102": "UNH",
	"437076102": "HD",
	"57636Q104": "MA",
	"254687106": "DIS",
	"060505104": "BAC",
	"30231G102": "XOM",
	"931142103": "WMT",
	"191216100": "KO",
	"717081103": "PFE",
	"17275R102": "CSCO",
	"713448108": "PEP",
	"002824100": "ABT",
	"166764100": "CVX",
	"58933Y105": "MRK",
	"00724F101": "ADBE",
	"79466L302": "CRM",
	"64110L106": "NFLX",
	"458140100": "INTC",
	"007903107": "AMD",
	"68389X105": "ORCL",
	"00206R102": "T",
	"92343V104": "VZ",
	"20030N101": "CMCSA",
	"654106103": "NKE",
	"580135101": "MCD",
	"22160K105": "COST",
	"882508104": "TXN",
	"747525103": "QCOM",
	"438516106": "HON",
	"911312106": "UPS",
	"548661107": "LOW",
	"855244109": "SBUX",
	"459200101": "IBM",
	"369604301": "GE",
	"149123101": "CAT",
	"097023105": "BA",
	"38141G104": "GS",
	"617446448": "MS",
	"949746101": "WFC",
	"172967424": "C",
	"025816109": "AXP",
	"78409V104": "SPGI",
	"09247X101": "BLK",
	"539830109": "LMT",
	"75513E101": "RTX",
	"244199105": "DE",
	"907818108": "UNP",
	"716917109": "PM",
	"02209S103": "MO",
	"88579Y101": "MMM",
	"375558103": "GILD",
	"031162100": "AMGN",
	"110122108": "BMY",
	"532457108": "LLY",
	"00287Y109": "ABBV",
	"883556102": "TMO",
	"235851102": "DHR",
	"65339F101": "NEE",
	"842587107": "SO",
	"26441C204": "DUK",
	"59167X109": "LIN",
	"009158106": "APD",
	"824348106": "SHW",
	"278865100": "ECL",
	"31428X106": "FDX",
	"655844108": "NSC",
	"126408103": "CSX",
	"70450Y103": "PYPL",
	"461202103": "INTU",
	"81762P102": "NOW",
	"90353T100": "UBER",
	"852234103": "SQ",
	"82509L107": "SHOP",
	"83304A106": "SNOW",
	"69608A108": "PLTR",
	"19260Q107": "COIN",
	"771049103": "RBLX",
	"009066101": "ABNB",
	"25809K105": "DASH",
	"98980L101": "ZM",
	"L8681T102": "SPOT",
	"77543R102": "ROKU",
	"88339J105": "TTD",
	"09857L108": "BKNG",
	"126650100": "CVS",
	"191216660": "KHC",
	"494368103": "KMB",
	"03831L108": "ZS",
	"05464C101": "ATVI",
	"64110D104": "NEM",
	"637071101": "NTAP",
	"161175103": "CHTR",
	"68902V107": "ORLY",
}

// CUSIPToTicker looks up a ticker by CUSIP, returning ("", false) for
// unknown identifiers. The caller's display fallback is the issuer name
// already present on the raw filing record.
func CUSIPToTicker(cusip string) (string, bool) {
	t, ok := cusipToTicker[cusip]
	return t, ok
}
