package cart

type mapper int

const (
	mapperNone mapper = iota
	mapperMBC1
	mapperMBC2
	mapperMBC3
	mapperMBC5
	mapperOther
)

type feature uint8

const (
	featRAM feature = 1 << iota
	featBattery
	featTimer
	featRumble
	featCamera
)

type cartType struct {
	name   string
	mapper mapper
	feats  feature
}

var cartTypes = map[byte]cartType{
	0x00: {"ROM ONLY", mapperNone, 0},
	0x01: {"MBC1", mapperMBC1, 0},
	0x02: {"MBC1+RAM", mapperMBC1, featRAM},
	0x03: {"MBC1+RAM+BATTERY", mapperMBC1, featRAM | featBattery},
	0x05: {"MBC2", mapperMBC2, 0},
	0x06: {"MBC2+BATTERY", mapperMBC2, featBattery},
	0x08: {"ROM+RAM", mapperNone, featRAM},
	0x09: {"ROM+RAM+BATTERY", mapperNone, featRAM | featBattery},
	0x0B: {"MMM01", mapperOther, 0},
	0x0C: {"MMM01+RAM", mapperOther, featRAM},
	0x0D: {"MMM01+RAM+BATTERY", mapperOther, featRAM | featBattery},
	0x0F: {"MBC3+TIMER+BATTERY", mapperMBC3, featTimer | featBattery},
	0x10: {"MBC3+TIMER+RAM+BATTERY", mapperMBC3, featTimer | featRAM | featBattery},
	0x11: {"MBC3", mapperMBC3, 0},
	0x12: {"MBC3+RAM", mapperMBC3, featRAM},
	0x13: {"MBC3+RAM+BATTERY", mapperMBC3, featRAM | featBattery},
	0x19: {"MBC5", mapperMBC5, 0},
	0x1A: {"MBC5+RAM", mapperMBC5, featRAM},
	0x1B: {"MBC5+RAM+BATTERY", mapperMBC5, featRAM | featBattery},
	0x1C: {"MBC5+RUMBLE", mapperMBC5, featRumble},
	0x1D: {"MBC5+RUMBLE+RAM", mapperMBC5, featRumble | featRAM},
	0x1E: {"MBC5+RUMBLE+RAM+BATTERY", mapperMBC5, featRumble | featRAM | featBattery},
	0x20: {"MBC6", mapperOther, 0},
	0x22: {"MBC7+SENSOR+RUMBLE+RAM+BATTERY", mapperOther, featRumble | featRAM | featBattery},
	0xFC: {"POCKET CAMERA", mapperOther, featCamera},
	0xFD: {"BANDAI TAMA5", mapperOther, 0},
	0xFE: {"HuC3", mapperOther, 0},
	0xFF: {"HuC1+RAM+BATTERY", mapperOther, featRAM | featBattery},
}
