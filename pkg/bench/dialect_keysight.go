package bench

// Таблицы значений, специфичные для Keysight.
var (
	keysightAcquireType = MustAliasTable("acquisition mode",
		Alias{Canonical: "NORM", Accept: []string{"normal", "sample"}},
		Alias{Canonical: "AVER", Accept: []string{"average", "averaging"}},
		Alias{Canonical: "HRES", Accept: []string{"hires", "high resolution", "highres"}},
		Alias{Canonical: "PEAK", Accept: []string{"peak detect", "peakdetect"}},
	)

	keysightSlope = MustAliasTable("trigger slope",
		Alias{Canonical: "POS", Accept: []string{"positive", "rise", "rising"}},
		Alias{Canonical: "NEG", Accept: []string{"negative", "fall", "falling"}},
		Alias{Canonical: "EITH", Accept: []string{"either", "both"}},
		Alias{Canonical: "ALT", Accept: []string{"alternate"}},
	)

	keysightTriggerCoupling = MustAliasTable("trigger coupling",
		Alias{Canonical: "AC"},
		Alias{Canonical: "DC"},
		Alias{Canonical: "LFR", Accept: []string{"lfreject", "lf reject"}},
	)

	keysightImpedance = MustAliasTable("input impedance",
		Alias{Canonical: "ONEM", Accept: []string{"1m", "1meg", "onemeg"}},
		Alias{Canonical: "FIFT", Accept: []string{"50", "fifty"}},
	)

	keysightPointsMode = MustAliasTable("points mode",
		Alias{Canonical: "NORM", Accept: []string{"normal"}},
		Alias{Canonical: "MAX", Accept: []string{"maximum"}},
		Alias{Canonical: "RAW"},
	)

	triggerSweep = MustAliasTable("trigger sweep",
		Alias{Canonical: "AUTO"},
		Alias{Canonical: "NORM", Accept: []string{"normal"}},
	)

	triggerType = MustAliasTable("trigger type",
		Alias{Canonical: "EDGE"},
	)

	generatorFunction = MustAliasTable("function",
		Alias{Canonical: "SIN", Accept: []string{"sine", "sinusoid"}},
		Alias{Canonical: "SQU", Accept: []string{"square"}},
		Alias{Canonical: "RAMP"},
		Alias{Canonical: "TRI", Accept: []string{"triangle"}},
		Alias{Canonical: "PULS", Accept: []string{"pulse"}},
		Alias{Canonical: "NOIS", Accept: []string{"noise"}},
		Alias{Canonical: "PRBS"},
		Alias{Canonical: "ARB", Accept: []string{"arbitrary"}},
		Alias{Canonical: "DC"},
	)

	generatorLoad = MustAliasTable("output load",
		Alias{Canonical: "INF", Accept: []string{"infinity", "high-z", "highz", "hiz"}},
		Alias{Canonical: "MIN", Accept: []string{"minimum"}},
		Alias{Canonical: "MAX", Accept: []string{"maximum"}},
	)

	sweepSpacing = MustAliasTable("sweep spacing",
		Alias{Canonical: "LIN", Accept: []string{"linear"}},
		Alias{Canonical: "LOG", Accept: []string{"logarithmic"}},
	)

	frequencyCoupleMode = MustAliasTable("frequency couple mode",
		Alias{Canonical: "OFFS", Accept: []string{"offset"}},
		Alias{Canonical: "RAT", Accept: []string{"ratio"}},
	)
)

// KeysightInfiniiVision - осциллографы InfiniiVision 1000 X (DSOX1202G, DSOX1204G).
// Данные осциллограммы приходят блоком IEEE 488.2 в любом формате; время от нуля.
var KeysightInfiniiVision = MustDialect("keysight-infiniivision", map[Op]Command{
	OpSetCoupling:       setCmd(":CHANnel<n>:COUPling <v>", enum("coupling", CouplingAliases)),
	OpGetCoupling:       getCmd(":CHANnel<n>:COUPling?", CouplingAliases),
	OpSetRange:          setCmd(":CHANnel<n>:RANGe <v>", number("range")),
	OpGetRange:          getCmd(":CHANnel<n>:RANGe?", nil),
	OpSetOffset:         setCmd(":CHANnel<n>:OFFSet <v>", number("offset")),
	OpGetOffset:         getCmd(":CHANnel<n>:OFFSet?", nil),
	OpSetAttenuation:    setCmd(":CHANnel<n>:PROBe <v>", numberIn("attenuation", 0.001, 10000)),
	OpGetAttenuation:    getCmd(":CHANnel<n>:PROBe?", nil),
	OpGetImpedance:      getCmd(":CHANnel<n>:IMPedance?", keysightImpedance),
	OpSetDisplay:        setCmd(":CHANnel<n>:DISPlay <v>", enum("display", OnOffAliases)),
	OpGetDisplay:        getCmd(":CHANnel<n>:DISPlay?", OnOffAliases),
	OpSetBandwidthLimit: setCmd(":CHANnel<n>:BWLimit <v>", enum("bandwidth limit", OnOffAliases)),
	OpGetBandwidthLimit: getCmd(":CHANnel<n>:BWLimit?", OnOffAliases),
	OpSetInvert:         setCmd(":CHANnel<n>:INVert <v>", enum("invert", OnOffAliases)),
	OpGetInvert:         getCmd(":CHANnel<n>:INVert?", OnOffAliases),
	OpSetUnit:           setCmd(":CHANnel<n>:UNITs <v>", enum("unit", UnitAliases)),
	OpGetUnit:           getCmd(":CHANnel<n>:UNITs?", UnitAliases),
	OpSetSignalType:     setCmd(":CHANnel<n>:STYPe <v>", enum("signal type", SignalTypeAliases)),
	OpGetSignalType:     getCmd(":CHANnel<n>:STYPe?", SignalTypeAliases),
	OpSetLabel:          setCmd(":CHANnel<n>:LABel <v>;:DISPlay:LABel ON", textParam("label", 32)),
	OpGetLabel:          getCmd(":CHANnel<n>:LABel?", nil),
	OpSetVerticalScale:  setCmd(":CHANnel<n>:SCALe <v>", number("vertical scale")),
	OpGetVerticalScale:  getCmd(":CHANnel<n>:SCALe?", nil),
	OpGetSettings:       getCmd(":CHANnel<n>?", nil),

	OpSetHorizontalScale: setCmd(":TIMebase:SCALe <v>", number("horizontal scale")),
	OpGetHorizontalScale: getCmd(":TIMebase:SCALe?", nil),
	OpSetAcquisitionMode: setCmd(":ACQuire:TYPE <v>", enum("acquisition mode", keysightAcquireType)),
	OpGetAcquisitionMode: getCmd(":ACQuire:TYPE?", keysightAcquireType),
	OpRun:                setCmd(":RUN"),
	OpStop:               setCmd(":STOP"),
	OpSingle:             setCmd(":SINGle"),
	OpAutoscale:          setCmd(":AUToscale CHANnel<n>"),
	OpSetFrontPanelLock:  setCmd(":SYSTem:LOCK <v>", enum("lock", OnOffAliases)),
	OpGetFrontPanelLock:  getCmd(":SYSTem:LOCK?", OnOffAliases),

	OpSetTriggerType:     setCmd(":TRIGger:MODE <v>", enum("trigger type", triggerType)),
	OpSetTriggerSource:   setCmd(":TRIGger:EDGE:SOURce CHANnel<n>"),
	OpSetTriggerLevel:    setCmd(":TRIGger:EDGE:LEVel <v>,CHANnel<n>", number("trigger level")),
	OpGetTriggerLevel:    getCmd(":TRIGger:EDGE:LEVel?", nil),
	OpSetTriggerSlope:    setCmd(":TRIGger:EDGE:SLOPe <v>", enum("trigger slope", keysightSlope)),
	OpGetTriggerSlope:    getCmd(":TRIGger:EDGE:SLOPe?", keysightSlope),
	OpSetTriggerCoupling: setCmd(":TRIGger:EDGE:COUPling <v>", enum("trigger coupling", keysightTriggerCoupling)),
	OpSetTriggerSweep:    setCmd(":TRIGger:SWEep <v>", enum("trigger sweep", triggerSweep)),

	OpSetWaveformPointsMode: setCmd(":WAVeform:POINts:MODE <v>", enum("points mode", keysightPointsMode)),
	OpSetWaveformPoints:     setCmd(":WAVeform:POINts <v>", integerIn("points", 1, 8000000)),
	OpSetWaveformFormat:     setCmd(":WAVeform:FORMat <v>", enum("waveform format", WaveformFormatAliases)),
	OpSetWaveformSource:     setCmd(":WAVeform:SOURce CHANnel<n>"),
	OpGetWaveformPreamble:   getCmd(":WAVeform:PREamble?", nil),
	OpGetWaveformData:       getCmd(":WAVeform:DATA?", nil),

	OpSetDate: setCmd(":SYSTem:DATE <v1>,<v2>,<v3>", integerIn("year", 2000, 2099), integerIn("month", 1, 12), integerIn("day", 1, 31)),
	OpSetTime: setCmd(":SYSTem:TIME <v1>,<v2>,<v3>", integerIn("hour", 0, 23), integerIn("minute", 0, 59), integerIn("second", 0, 59)),
},
	WithWaveformSpec(WaveformSpec{
		Delimiter: ",",
		MinFields: 10,
		Fields: map[PreambleField]int{
			FieldFormat:     0,
			FieldType:       1,
			FieldPoints:     2,
			FieldCount:      3,
			FieldXIncrement: 4,
			FieldXOrigin:    5,
			FieldXReference: 6,
			FieldYIncrement: 7,
			FieldYOrigin:    8,
			FieldYReference: 9,
		},
		FormatCodes: map[string]Format{"0": FormatByte, "1": FormatWord, "4": FormatASCII},
		Headers: map[Format]HeaderRule{
			FormatASCII: HeaderBlock,
			FormatByte:  HeaderBlock,
			FormatWord:  HeaderBlock,
		},
		ASCIIScale: ScalePhysical,
		TimeAxis:   TimeIncrement,
	}),
	WithStartup(OpSetDate, OpSetTime),
)

// KeysightEDU33210 - генераторы сигналов EDU33211A и EDU33212A.
var KeysightEDU33210 = MustDialect("keysight-edu33210", map[Op]Command{
	OpSetFunction:     setCmd("SOURce<n>:FUNCtion <v>", enum("function", generatorFunction)),
	OpGetFunction:     getCmd("SOURce<n>:FUNCtion?", generatorFunction),
	OpSetFrequency:    setCmd("SOURce<n>:FREQuency <v>", numberIn("frequency", 1e-6, 20e6)),
	OpGetFrequency:    getCmd("SOURce<n>:FREQuency?", nil),
	OpSetAmplitude:    setCmd("SOURce<n>:VOLTage <v>", numberIn("amplitude", 1e-3, 10)),
	OpGetAmplitude:    getCmd("SOURce<n>:VOLTage?", nil),
	OpSetSourceOffset: setCmd("SOURce<n>:VOLTage:OFFSet <v>", numberIn("offset", -5, 5)),
	OpGetSourceOffset: getCmd("SOURce<n>:VOLTage:OFFSet?", nil),
	OpSetOutput:       setCmd("OUTPut<n> <v>", enum("output", OnOffAliases)),
	OpGetOutput:       getCmd("OUTPut<n>?", OnOffAliases),
	OpSetOutputLoad: setCmd("OUTPut<n>:LOAD <v>", Param{
		Name: "load", Kind: KindNumber, Aliases: generatorLoad, Range: &Range{Min: 1, Max: 10000},
	}),
	OpGetOutputLoad: getCmd("OUTPut<n>:LOAD?", nil),
	OpApply: setCmd("SOURce<n>:APPLy:<v1> <v2>,<v3>,<v4>",
		enum("function", generatorFunction),
		numberIn("frequency", 1e-6, 20e6),
		numberIn("amplitude", 1e-3, 10),
		numberIn("offset", -5, 5),
	),

	OpSetSweepStart:   setCmd("SOURce<n>:FREQuency:STARt <v>", numberIn("start frequency", 1e-6, 20e6)),
	OpSetSweepStop:    setCmd("SOURce<n>:FREQuency:STOP <v>", numberIn("stop frequency", 1e-6, 20e6)),
	OpSetSweepSpacing: setCmd("SOURce<n>:SWEep:SPACing <v>", enum("sweep spacing", sweepSpacing)),
	OpSetSweepTime:    setCmd("SOURce<n>:SWEep:TIME <v>", numberIn("sweep time", 1e-3, 3600)),
	OpSetSweepState:   setCmd("SOURce<n>:SWEep:STATe <v>", enum("sweep", OnOffAliases)),
	OpGetSweepState:   getCmd("SOURce<n>:SWEep:STATe?", OnOffAliases),

	OpSetFrequencyCouple: setCmd("SOURce<n>:FREQuency:COUPle <v>", enum("frequency couple", OnOffAliases)),
	OpSetFrequencyMode:   setCmd("SOURce<n>:FREQuency:COUPle:MODE <v>", enum("frequency couple mode", frequencyCoupleMode)),
	OpSetListFrequency: setCmd("SOURce<n>:LIST:FREQuency <v>", Param{
		Name: "frequency list", Kind: KindNumberList, Range: &Range{Min: 1e-6, Max: 20e6},
	}),
	OpSetListDwell: setCmd("SOURce<n>:LIST:DWELl <v>", numberIn("dwell", 1e-3, 3600)),
})

// KeysightE36300 - трёхканальные источники питания E36311A, E36312A, E36313A.
// Канал задаётся списком (@n) в каждой команде, выбор канала на приборе не меняется.
var KeysightE36300 = MustDialect("keysight-e36300", map[Op]Command{
	OpApply:            setCmd("APPLy CH<n>,<v1>,<v2>", number("voltage"), number("current")),
	OpSetVoltage:       setCmd("SOURce:VOLTage <v>,(@<n>)", number("voltage")),
	OpGetVoltage:       getCmd("SOURce:VOLTage? (@<n>)", nil),
	OpSetCurrent:       setCmd("SOURce:CURRent <v>,(@<n>)", number("current")),
	OpGetCurrent:       getCmd("SOURce:CURRent? (@<n>)", nil),
	OpMeasureVoltage:   getCmd("MEASure:VOLTage? (@<n>)", nil),
	OpMeasureCurrent:   getCmd("MEASure:CURRent? (@<n>)", nil),
	OpSetOutput:        setCmd("OUTPut <v>,(@<n>)", enum("output", OnOffAliases)),
	OpGetOutput:        getCmd("OUTPut? (@<n>)", OnOffAliases),
	OpSetScreen:        setCmd("DISPlay <v>", enum("display", OnOffAliases)),
	OpGetScreen:        getCmd("DISPlay?", OnOffAliases),
	OpSetDisplayText:   setCmd("DISPlay:TEXT <v>", textParam("display text", 30)),
	OpGetDisplayText:   getCmd("DISPlay:TEXT?", nil),
	OpClearDisplayText: setCmd("DISPlay:TEXT:CLEar"),
	OpRemote:           setCmd("SYSTem:REMote"),

	OpSetDate: setCmd("SYSTem:DATE <v1>,<v2>,<v3>", integerIn("year", 2000, 2099), integerIn("month", 1, 12), integerIn("day", 1, 31)),
	OpSetTime: setCmd("SYSTem:TIME <v1>,<v2>,<v3>", integerIn("hour", 0, 23), integerIn("minute", 0, 59), integerIn("second", 0, 59)),
},
	WithStartup(OpSetDate, OpSetTime),
)
