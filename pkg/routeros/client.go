package routeros

import (
	"fmt"
	"sync"

	ros "github.com/go-routeros/routeros/v3"
	"github.com/go-routeros/routeros/v3/proto"

	"github.com/hotspotsyncpro/hotspotsyncpro/internal/model"
	"github.com/hotspotsyncpro/hotspotsyncpro/pkg/logger"
)

// RouterOS API 资源路径
const (
	bindingPath   = "/ip/hotspot/ip-binding"
	leasePath     = "/ip/dhcp-server/lease"
	arpPath       = "/ip/arp"
	schedulerPath = "/system/scheduler"
)

// Config 设备连接配置
type Config struct {
	Address  string
	Username string
	Password string
}

// Client RouterOS API 客户端。连接按需建立；任何调用失败都会把当前
// 连接作废，下一次调用自动重拨，同步循环因此天然具备逐周期重连能力。
type Client struct {
	cfg  Config
	mu   sync.Mutex
	conn *ros.Client
}

// NewClient 创建客户端（不立即拨号）
func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg}
}

// Close 关闭当前连接
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// run 确保连接可用后执行一条 API 语句；失败则作废连接供下次重拨
func (c *Client) run(sentence ...string) (*ros.Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		conn, err := ros.Dial(c.cfg.Address, c.cfg.Username, c.cfg.Password)
		if err != nil {
			return nil, fmt.Errorf("dial routeros %s: %w", c.cfg.Address, err)
		}
		logger.Infof("connected to routeros at %s", c.cfg.Address)
		c.conn = conn
	}

	reply, err := c.conn.Run(sentence...)
	if err != nil {
		c.conn.Close()
		c.conn = nil
		return nil, err
	}
	return reply, nil
}

// ListBindings 列出全部 hotspot ip-binding
func (c *Client) ListBindings() ([]model.Binding, error) {
	reply, err := c.run(bindingPath + "/print")
	if err != nil {
		return nil, err
	}
	bindings := make([]model.Binding, 0, len(reply.Re))
	for _, re := range reply.Re {
		bindings = append(bindings, bindingFromSentence(re))
	}
	return bindings, nil
}

// SetBindingFields 按 id 更新绑定字段
func (c *Client) SetBindingFields(id string, fields map[string]string) error {
	sentence := []string{bindingPath + "/set", "=.id=" + id}
	for key, value := range fields {
		sentence = append(sentence, "="+key+"="+value)
	}
	_, err := c.run(sentence...)
	return err
}

// AddBinding 新增绑定，初始为放行状态
func (c *Client) AddBinding(mac, comment string) error {
	_, err := c.run(
		bindingPath+"/add",
		"=mac-address="+mac,
		"=type="+model.BindingTypeBypassed,
		"=comment="+comment,
	)
	return err
}

// RemoveBinding 按 id 删除绑定
func (c *Client) RemoveBinding(id string) error {
	_, err := c.run(bindingPath+"/remove", "=.id="+id)
	return err
}

// ListLeases 列出 DHCP lease 表
func (c *Client) ListLeases() ([]model.Lease, error) {
	return c.listLeaseTable(leasePath)
}

// ListARP 列出 ARP 邻居表
func (c *Client) ListARP() ([]model.Lease, error) {
	return c.listLeaseTable(arpPath)
}

func (c *Client) listLeaseTable(path string) ([]model.Lease, error) {
	reply, err := c.run(path + "/print")
	if err != nil {
		return nil, err
	}
	leases := make([]model.Lease, 0, len(reply.Re))
	for _, re := range reply.Re {
		leases = append(leases, model.Lease{
			Address:    re.Map["address"],
			MacAddress: re.Map["mac-address"],
		})
	}
	return leases, nil
}

// ListSchedules 列出设备定时任务
func (c *Client) ListSchedules() ([]model.Schedule, error) {
	reply, err := c.run(schedulerPath + "/print")
	if err != nil {
		return nil, err
	}
	schedules := make([]model.Schedule, 0, len(reply.Re))
	for _, re := range reply.Re {
		schedules = append(schedules, model.Schedule{
			ID:        re.Map[".id"],
			Name:      re.Map["name"],
			StartDate: re.Map["start-date"],
			StartTime: re.Map["start-time"],
			Interval:  re.Map["interval"],
			OnEvent:   re.Map["on-event"],
			Policy:    re.Map["policy"],
		})
	}
	return schedules, nil
}

// AddSchedule 新增定时任务
func (c *Client) AddSchedule(s model.Schedule) error {
	_, err := c.run(
		schedulerPath+"/add",
		"=name="+s.Name,
		"=start-date="+s.StartDate,
		"=start-time="+s.StartTime,
		"=interval="+s.Interval,
		"=on-event="+s.OnEvent,
		"=policy="+s.Policy,
	)
	return err
}

// RemoveSchedule 按 id 删除定时任务
func (c *Client) RemoveSchedule(id string) error {
	_, err := c.run(schedulerPath+"/remove", "=.id="+id)
	return err
}

// bindingFromSentence 把 API 应答行转换为绑定记录
func bindingFromSentence(re *proto.Sentence) model.Binding {
	return model.Binding{
		ID:         re.Map[".id"],
		MacAddress: re.Map["mac-address"],
		Address:    re.Map["address"],
		Type:       re.Map["type"],
		Comment:    re.Map["comment"],
	}
}
