// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package drv8711

import "fmt"

// Addr is a register address. Only the values 0 to 7 exist on the chip.
type Addr uint8

const (
	AddrControl Addr = 0x0
	AddrTorque  Addr = 0x1
	AddrOff     Addr = 0x2
	AddrBlank   Addr = 0x3
	AddrDecay   Addr = 0x4
	AddrStall   Addr = 0x5
	AddrDrive   Addr = 0x6
	AddrStatus  Addr = 0x7
)

const (
	// addrShift is the position of the address nibble in a register word.
	addrShift = 12
	// addrMask covers bits 15-12 of a register word.
	addrMask uint16 = 0xF000
	// readFlag selects a read cycle when set in a transmitted frame.
	readFlag uint16 = 0x8000
)

var addrNames = [...]string{"CTRL", "TORQUE", "OFF", "BLANK", "DECAY", "STALL", "DRIVE", "STATUS"}

func (a Addr) String() string {
	if int(a) < len(addrNames) {
		return addrNames[a]
	}
	return fmt.Sprintf("Addr(%d)", uint8(a))
}

// word returns the address bits of a register word for a.
func (a Addr) word() uint16 {
	return uint16(a&0xF) << addrShift
}

// AddrOf returns the address nibble of a register word.
func AddrOf(w uint16) Addr {
	return Addr(w >> addrShift)
}

// field shifts v into position after masking it to width bits.
func field(v uint8, offset, width uint) uint16 {
	return (uint16(v) & (1<<width - 1)) << offset
}

// bits extracts width bits at offset from w.
func bits(w uint16, offset, width uint) uint8 {
	return uint8((w >> offset) & (1<<width - 1))
}

func flag(w uint16, offset uint) bool {
	return w&(1<<offset) != 0
}

func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Control is the CTRL register.
type Control struct {
	DTime   uint8 `yaml:"dtime"`   // 11-10 dead time
	ISGain  uint8 `yaml:"isgain"`  // 9-8 current sense amplifier gain
	ExStall uint8 `yaml:"exstall"` // 7 external stall detect
	Mode    uint8 `yaml:"mode"`    // 6-3 microstep mode
	RStep   uint8 `yaml:"rstep"`   // 2 single step, self clearing
	RDir    uint8 `yaml:"rdir"`    // 1 direction, XOR with DIR pin
	Enable  uint8 `yaml:"enable"`  // 0 motor enable
}

// Word encodes the register.
func (r Control) Word() uint16 {
	return AddrControl.word() |
		field(r.DTime, 10, 2) |
		field(r.ISGain, 8, 2) |
		field(r.ExStall, 7, 1) |
		field(r.Mode, 3, 4) |
		field(r.RStep, 2, 1) |
		field(r.RDir, 1, 1) |
		field(r.Enable, 0, 1)
}

// ControlFromWord decodes a CTRL word. The address bits are ignored.
func ControlFromWord(w uint16) Control {
	return Control{
		DTime:   bits(w, 10, 2),
		ISGain:  bits(w, 8, 2),
		ExStall: bits(w, 7, 1),
		Mode:    bits(w, 3, 4),
		RStep:   bits(w, 2, 1),
		RDir:    bits(w, 1, 1),
		Enable:  bits(w, 0, 1),
	}
}

func (r Control) String() string {
	return fmt.Sprintf("CTRL{DTIME:%d ISGAIN:%d EXSTALL:%d MODE:%d RSTEP:%d RDIR:%d ENBL:%d}",
		r.DTime, r.ISGain, r.ExStall, r.Mode, r.RStep, r.RDir, r.Enable)
}

// Torque is the TORQUE register.
type Torque struct {
	SimplTh uint8 `yaml:"simplth"` // 10-8 back EMF sample threshold
	Torque  uint8 `yaml:"torque"`  // 7-0 full scale current DAC
}

// Word encodes the register.
func (r Torque) Word() uint16 {
	return AddrTorque.word() | field(r.SimplTh, 8, 3) | field(r.Torque, 0, 8)
}

// TorqueFromWord decodes a TORQUE word.
func TorqueFromWord(w uint16) Torque {
	return Torque{SimplTh: bits(w, 8, 3), Torque: bits(w, 0, 8)}
}

func (r Torque) String() string {
	return fmt.Sprintf("TORQUE{SIMPLTH:%d TORQUE:%#02x}", r.SimplTh, r.Torque)
}

// Off is the OFF register.
type Off struct {
	PWMMode uint8 `yaml:"pwmmode"` // 8 bypass indexer
	TOff    uint8 `yaml:"toff"`    // 7-0 fixed off time, 500ns steps
}

// Word encodes the register.
func (r Off) Word() uint16 {
	return AddrOff.word() | field(r.PWMMode, 8, 1) | field(r.TOff, 0, 8)
}

// OffFromWord decodes an OFF word.
func OffFromWord(w uint16) Off {
	return Off{PWMMode: bits(w, 8, 1), TOff: bits(w, 0, 8)}
}

func (r Off) String() string {
	return fmt.Sprintf("OFF{PWMMODE:%d TOFF:%#02x}", r.PWMMode, r.TOff)
}

// Blank is the BLANK register.
type Blank struct {
	ABT    uint8 `yaml:"abt"`    // 8 adaptive blanking time
	TBlank uint8 `yaml:"tblank"` // 7-0 current trip blanking time
}

// Word encodes the register.
func (r Blank) Word() uint16 {
	return AddrBlank.word() | field(r.ABT, 8, 1) | field(r.TBlank, 0, 8)
}

// BlankFromWord decodes a BLANK word.
func BlankFromWord(w uint16) Blank {
	return Blank{ABT: bits(w, 8, 1), TBlank: bits(w, 0, 8)}
}

func (r Blank) String() string {
	return fmt.Sprintf("BLANK{ABT:%d TBLANK:%#02x}", r.ABT, r.TBlank)
}

// Decay is the DECAY register.
type Decay struct {
	DecMod uint8 `yaml:"decmod"` // 10-8 decay mode
	TDecay uint8 `yaml:"tdecay"` // 7-0 mixed decay transition time
}

// Word encodes the register.
func (r Decay) Word() uint16 {
	return AddrDecay.word() | field(r.DecMod, 8, 3) | field(r.TDecay, 0, 8)
}

// DecayFromWord decodes a DECAY word.
func DecayFromWord(w uint16) Decay {
	return Decay{DecMod: bits(w, 8, 3), TDecay: bits(w, 0, 8)}
}

func (r Decay) String() string {
	return fmt.Sprintf("DECAY{DECMOD:%d TDECAY:%#02x}", r.DecMod, r.TDecay)
}

// Stall is the STALL register.
type Stall struct {
	VDiv  uint8 `yaml:"vdiv"`  // 11-10 back EMF divider
	SDCnt uint8 `yaml:"sdcnt"` // 9-8 steps before stall is asserted
	SDThr uint8 `yaml:"sdthr"` // 7-0 stall detect threshold
}

// Word encodes the register.
func (r Stall) Word() uint16 {
	return AddrStall.word() | field(r.VDiv, 10, 2) | field(r.SDCnt, 8, 2) | field(r.SDThr, 0, 8)
}

// StallFromWord decodes a STALL word.
func StallFromWord(w uint16) Stall {
	return Stall{VDiv: bits(w, 10, 2), SDCnt: bits(w, 8, 2), SDThr: bits(w, 0, 8)}
}

func (r Stall) String() string {
	return fmt.Sprintf("STALL{VDIV:%d SDCNT:%d SDTHR:%#02x}", r.VDiv, r.SDCnt, r.SDThr)
}

// Drive is the DRIVE register.
type Drive struct {
	IDriveP uint8 `yaml:"idrivep"` // 11-10 high-side gate drive peak current
	IDriveN uint8 `yaml:"idriven"` // 9-8 low-side gate drive peak current
	TDriveP uint8 `yaml:"tdrivep"` // 7-6 high-side gate drive time
	TDriveN uint8 `yaml:"tdriven"` // 5-4 low-side gate drive time
	OCPDeg  uint8 `yaml:"ocpdeg"`  // 3-2 OCP deglitch time
	OCPTh   uint8 `yaml:"ocpth"`   // 1-0 OCP threshold
}

// Word encodes the register.
func (r Drive) Word() uint16 {
	return AddrDrive.word() |
		field(r.IDriveP, 10, 2) |
		field(r.IDriveN, 8, 2) |
		field(r.TDriveP, 6, 2) |
		field(r.TDriveN, 4, 2) |
		field(r.OCPDeg, 2, 2) |
		field(r.OCPTh, 0, 2)
}

// DriveFromWord decodes a DRIVE word.
func DriveFromWord(w uint16) Drive {
	return Drive{
		IDriveP: bits(w, 10, 2),
		IDriveN: bits(w, 8, 2),
		TDriveP: bits(w, 6, 2),
		TDriveN: bits(w, 4, 2),
		OCPDeg:  bits(w, 2, 2),
		OCPTh:   bits(w, 0, 2),
	}
}

func (r Drive) String() string {
	return fmt.Sprintf("DRIVE{IDRIVEP:%d IDRIVEN:%d TDRIVEP:%d TDRIVEN:%d OCPDEG:%d OCPTH:%d}",
		r.IDriveP, r.IDriveN, r.TDriveP, r.TDriveN, r.OCPDeg, r.OCPTh)
}

// Status is the STATUS register. The fault bits latch on the chip and are
// cleared by writing 0 to them.
type Status struct {
	StdLat uint8 `yaml:"stdlat"` // 7 latched stall detect
	Std    uint8 `yaml:"std"`    // 6 stall detected
	UVLO   uint8 `yaml:"uvlo"`   // 5 undervoltage lockout
	BPDF   uint8 `yaml:"bpdf"`   // 4 channel B predriver fault
	APDF   uint8 `yaml:"apdf"`   // 3 channel A predriver fault
	BOCP   uint8 `yaml:"bocp"`   // 2 channel B overcurrent
	AOCP   uint8 `yaml:"aocp"`   // 1 channel A overcurrent
	OTS    uint8 `yaml:"ots"`    // 0 overtemperature shutdown
}

// Word encodes the register.
func (r Status) Word() uint16 {
	return AddrStatus.word() |
		field(r.StdLat, 7, 1) |
		field(r.Std, 6, 1) |
		field(r.UVLO, 5, 1) |
		field(r.BPDF, 4, 1) |
		field(r.APDF, 3, 1) |
		field(r.BOCP, 2, 1) |
		field(r.AOCP, 1, 1) |
		field(r.OTS, 0, 1)
}

// StatusFromWord decodes a STATUS word.
func StatusFromWord(w uint16) Status {
	return Status{
		StdLat: b2u(flag(w, 7)),
		Std:    b2u(flag(w, 6)),
		UVLO:   b2u(flag(w, 5)),
		BPDF:   b2u(flag(w, 4)),
		APDF:   b2u(flag(w, 3)),
		BOCP:   b2u(flag(w, 2)),
		AOCP:   b2u(flag(w, 1)),
		OTS:    b2u(flag(w, 0)),
	}
}

// Faulted reports whether any fault or stall bit is set.
func (r Status) Faulted() bool {
	return r.Word()&^addrMask != 0
}

func (r Status) String() string {
	return fmt.Sprintf("STATUS{STDLAT:%d STD:%d UVLO:%d BPDF:%d APDF:%d BOCP:%d AOCP:%d OTS:%d}",
		r.StdLat, r.Std, r.UVLO, r.BPDF, r.APDF, r.BOCP, r.AOCP, r.OTS)
}
