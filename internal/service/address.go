package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hotspotsyncpro/hotspotsyncpro/pkg/logger"
)

// ipPattern 四段 1-3 位数字；段值范围另行校验
var ipPattern = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)

// IsIPAddress 判断文本是否为合法 IPv4 地址
func IsIPAddress(s string) bool {
	if !ipPattern.MatchString(s) {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 255 {
			return false
		}
	}
	return true
}

// AddressResolver 把操作员填写的标识归类为 IP 或 MAC；
// IP 需要进一步在 lease/ARP 表中解析出当前绑定的 MAC。
type AddressResolver struct {
	device DeviceAPI
}

// NewAddressResolver 创建地址解析器
func NewAddressResolver(device DeviceAPI) *AddressResolver {
	return &AddressResolver{device: device}
}

// ResolveMac 把 MAC 或 IP 标识解析为 MAC 地址。
// IP 优先查 DHCP lease 表，查不到再退到 ARP 表；两表都没有返回 ErrIPNotFound。
func (r *AddressResolver) ResolveMac(macOrIP string) (string, error) {
	identifier := strings.TrimSpace(macOrIP)
	if !IsIPAddress(identifier) {
		return identifier, nil
	}

	leases, err := r.device.ListLeases()
	if err != nil {
		return "", transportErr("list dhcp leases", err)
	}
	for _, lease := range leases {
		if lease.Address == identifier && lease.MacAddress != "" {
			return lease.MacAddress, nil
		}
	}

	logger.Debugf("ip %s not in dhcp leases, falling back to arp table", identifier)
	neighbors, err := r.device.ListARP()
	if err != nil {
		return "", transportErr("list arp table", err)
	}
	for _, entry := range neighbors {
		if entry.Address == identifier && entry.MacAddress != "" {
			return entry.MacAddress, nil
		}
	}

	return "", ErrIPNotFound
}
