package types

// Tag names of the registry formats.
const (
	TagHeader     = "ZGLV"
	TagPerson     = "PERS"
	TagRecord     = "REC"
	TagAttachRoot = "ATT"

	// Header fields.
	TagVersion  = "VERSION"
	TagData     = "DATA"
	TagDate     = "DATE"
	TagFilename = "FILENAME"
	TagFName    = "FNAME"
	TagCodeMO   = "CODE_MO"
	TagYear     = "YEAR"
	TagMonth    = "MONTH"
	TagPeriod   = "PERIOD"
	TagNRecords = "NRECORDS"
	TagAreaType = "AREA_TYPE"

	// Record fields.
	TagNZap       = "N_ZAP"
	TagPrNov      = "PR_NOV"
	TagIDPac      = "ID_PAC"
	TagDocSer     = "DOCSER"
	TagDocNum     = "DOCNUM"
	TagDocID      = "DOC_ID"
	TagVPolis     = "VPOLIS"
	TagSPolis     = "SPOLIS"
	TagNPolis     = "NPOLIS"
	TagENP        = "ENP"
	TagSMO        = "SMO"
	TagMdDepID    = "MD_DEP_ID"
	TagDateNaz    = "DATE_NAZ"
	TagDateAttach = "DATE_ATTACH"
	TagSpPrik     = "SP_PRIK"
	TagTPrik      = "T_PRIK"
	TagSnilsVr    = "SNILS_VR"
	TagVrPost     = "VR_POST"

	// FLK report.
	TagFLKRoot    = "FLK_P"
	TagFNameI     = "FNAME_I"
	TagResult     = "RESULT"
	TagFLKError   = "PR"
	TagErrCode    = "OSHIB"
	TagErrComment = "COMMENT"
)
