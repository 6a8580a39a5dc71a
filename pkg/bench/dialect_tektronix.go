package bench

var (
	tekCoupling = MustAliasTable("coupling",
		Alias{Canonical: "AC"},
		Alias{Canonical: "DC"},
		Alias{Canonical: "GND", Accept: []string{"ground"}},
	)

	tekTermination = MustAliasTable("input impedance",
		Alias{Canonical: "MEG", Accept: []string{"1m", "1meg", "1.0e+6", "1.0000e+06"}},
		Alias{Canonical: "FIFTY", Accept: []string{"50", "fif", "5.0e+1", "50.0000"}},
	)

	tekBandwidth = MustAliasTable("bandwidth limit",
		Alias{Canonical: "TWENTY", Accept: []string{"on", "1", "true", "twe", "20mhz"}},
		Alias{Canonical: "FULL", Accept: []string{"off", "0", "false", "ful"}},
	)

	tekUnit = MustAliasTable("unit",
		Alias{Canonical: `"V"`, Accept: []string{"v", "volt", "volts", "voltage"}},
		Alias{Canonical: `"A"`, Accept: []string{"a", "amp", "amps", "ampere", "amperes"}},
	)

	tekAcquireMode = MustAliasTable("acquisition mode",
		Alias{Canonical: "SAMPLE", Accept: []string{"normal", "sam", "sample"}},
		Alias{Canonical: "AVERAGE", Accept: []string{"ave", "averaging"}},
		Alias{Canonical: "HIRES", Accept: []string{"hir", "high resolution", "highres"}},
		Alias{Canonical: "PEAKDETECT", Accept: []string{"peak", "peak detect"}},
	)

	tekLock = MustAliasTable("lock",
		Alias{Canonical: "ALL", Accept: []string{"on", "1", "true", "locked"}},
		Alias{Canonical: "NONE", Accept: []string{"off", "0", "false", "unlocked", "non"}},
	)

	tekSlope = MustAliasTable("trigger slope",
		Alias{Canonical: "RISE", Accept: []string{"ris", "rising", "positive", "pos"}},
		Alias{Canonical: "FALL", Accept: []string{"fal", "falling", "negative", "neg"}},
	)

	tekTriggerCoupling = MustAliasTable("trigger coupling",
		Alias{Canonical: "AC"},
		Alias{Canonical: "DC"},
		Alias{Canonical: "HFREJ", Accept: []string{"hfreject", "hf reject"}},
		Alias{Canonical: "LFREJ", Accept: []string{"lfreject", "lf reject", "lfr"}},
		Alias{Canonical: "NOISEREJ", Accept: []string{"noisereject", "noise reject"}},
	)

	tekEncoding = MustAliasTable("waveform format",
		Alias{Canonical: "ASCII", Accept: []string{"asc"}},
		Alias{Canonical: "RIBINARY", Accept: []string{"rib", "binary", "byte", "word"}},
	)
)

// TektronixMSO2000 - осциллографы MSO/DPO2000B (MSO2012B, MSO2014B).
// Заголовки ответов отключаются при старте. Отсчёты CURVe? в ASCII - уровни оцифровщика,
// в вольты они переводятся как (raw - YOFF)*YMULT + YZERO, время как XZERO + (i - PT_OFF)*XINCR.
var TektronixMSO2000 = MustDialect("tektronix-mso2000", map[Op]Command{
	OpSetCoupling:       setCmd("CH<n>:COUPling <v>", enum("coupling", tekCoupling)),
	OpGetCoupling:       getCmd("CH<n>:COUPling?", tekCoupling),
	OpSetOffset:         setCmd("CH<n>:OFFSet <v>", number("offset")),
	OpGetOffset:         getCmd("CH<n>:OFFSet?", nil),
	OpGetImpedance:      getCmd("CH<n>:TERmination?", tekTermination),
	OpSetDisplay:        setCmd("SELect:CH<n> <v>", enum("display", OnOffAliases)),
	OpGetDisplay:        getCmd("SELect:CH<n>?", OnOffAliases),
	OpSetBandwidthLimit: setCmd("CH<n>:BANdwidth <v>", enum("bandwidth limit", tekBandwidth)),
	OpSetInvert:         setCmd("CH<n>:INVert <v>", enum("invert", OnOffAliases)),
	OpGetInvert:         getCmd("CH<n>:INVert?", OnOffAliases),
	OpSetUnit:           setCmd("CH<n>:YUNits <v>", enum("unit", tekUnit)),
	OpGetUnit:           getCmd("CH<n>:YUNits?", tekUnit),
	OpSetLabel:          setCmd("CH<n>:LABel <v>", textParam("label", 32)),
	OpGetLabel:          getCmd("CH<n>:LABel?", nil),
	OpSetVerticalScale:  setCmd("CH<n>:SCAle <v>", number("vertical scale")),
	OpGetVerticalScale:  getCmd("CH<n>:SCAle?", nil),
	OpGetSettings:       getCmd("SET?", nil),

	OpSetHorizontalScale: setCmd("HORizontal:SCAle <v>", number("horizontal scale")),
	OpGetHorizontalScale: getCmd("HORizontal:SCAle?", nil),
	OpSetAcquisitionMode: setCmd("ACQuire:MODe <v>", enum("acquisition mode", tekAcquireMode)),
	OpGetAcquisitionMode: getCmd("ACQuire:MODe?", tekAcquireMode),
	OpRun:                setCmd("ACQuire:STOPAfter RUNSTop;:ACQuire:STATE RUN"),
	OpStop:               setCmd("ACQuire:STATE STOP"),
	OpSingle:             setCmd("ACQuire:STOPAfter SEQuence;:ACQuire:STATE RUN"),
	OpAutoscale:          setCmd("AUTOSet EXECute"),
	OpSetFrontPanelLock:  setCmd("LOCk <v>", enum("lock", tekLock)),
	OpGetFrontPanelLock:  getCmd("LOCk?", tekLock),

	OpSetTriggerType:     setCmd("TRIGger:A:TYPe <v>", enum("trigger type", triggerType)),
	OpSetTriggerSource:   setCmd("TRIGger:A:EDGE:SOUrce CH<n>"),
	OpSetTriggerLevel:    setCmd("TRIGger:A:LEVel:CH<n> <v>", number("trigger level")),
	OpGetTriggerLevel:    getCmd("TRIGger:A:LEVel:CH<n>?", nil),
	OpSetTriggerSlope:    setCmd("TRIGger:A:EDGE:SLOpe <v>", enum("trigger slope", tekSlope)),
	OpGetTriggerSlope:    getCmd("TRIGger:A:EDGE:SLOpe?", tekSlope),
	OpSetTriggerCoupling: setCmd("TRIGger:A:EDGE:COUPling <v>", enum("trigger coupling", tekTriggerCoupling)),
	OpSetTriggerSweep:    setCmd("TRIGger:A:MODe <v>", enum("trigger sweep", triggerSweep)),

	OpSetWaveformPoints:   setCmd("DATa:STARt 1;:DATa:STOP <v>", integerIn("points", 1, 1000000)),
	OpSetWaveformFormat:   setCmd("DATa:ENCdg <v>", enum("waveform format", tekEncoding)),
	OpSetWaveformSource:   setCmd("DATa:SOUrce CH<n>"),
	OpGetWaveformPreamble: getCmd("WFMOutpre?", nil),
	OpGetWaveformData:     getCmd("CURVe?", nil),

	OpHeaderOff: setCmd("HEADer OFF"),
	OpSetDate:   setCmd("DATE <v>", textParam("date", 10)),
	OpSetTime:   setCmd("TIME <v>", textParam("time", 8)),
},
	WithWaveformSpec(WaveformSpec{
		Delimiter: ";",
		MinFields: 16,
		Fields: map[PreambleField]int{
			FieldFormat:     2,
			FieldPoints:     6,
			FieldXIncrement: 9,
			FieldXOrigin:    10,
			FieldXReference: 11,
			FieldYIncrement: 13,
			FieldYReference: 14,
			FieldYOrigin:    15,
		},
		FormatCodes: map[string]Format{"asc": FormatASCII, "ascii": FormatASCII, "bin": FormatBinary, "binary": FormatBinary},
		Headers: map[Format]HeaderRule{
			FormatASCII:  HeaderNone,
			FormatBinary: HeaderBlock,
		},
		ASCIIScale: ScaleReferenced,
		TimeAxis:   TimeOriginReference,
	}),
	WithStartup(OpHeaderOff, OpSetDate, OpSetTime),
)
