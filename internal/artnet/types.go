package artnet

import "fmt"

// Address is the 15-bit Art-Net port-address identifying one universe.
type Address struct {
	Net    uint8 // Net: 7 bit network number.
	SubUni uint8 // SubUni: старший полубайт - Sub-Net, младший - Universe.
}

// NewAddress packs the (net, sub-net, universe) triple into its wire layout.
func NewAddress(net, subnet, universe uint8) Address {
	return Address{
		Net:    net & 0x7F,
		SubUni: subnet<<4 | universe&0x0F,
	}
}

// String returns the address as net.subnet.universe.
func (a Address) String() string {
	return fmt.Sprintf("%d.%d.%d", a.Net, a.SubUni>>4, a.SubUni&0x0F)
}

// Integer returns the port-address as a single number, Net in the high byte.
func (a Address) Integer() int {
	return int(a.Net)<<8 | int(a.SubUni)
}
